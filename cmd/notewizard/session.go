package main

import (
	"github.com/rs/zerolog"

	"github.com/gyeh/notewizard/internal/finalize"
	"github.com/gyeh/notewizard/internal/wizard"
)

// openSession loads the session document named by --session. Overrides from
// --overrides replace those in the document.
func openSession(fn finalize.Func, log zerolog.Logger) (*wizard.Session, error) {
	in, err := wizard.LoadInput(cfg.SessionPath)
	if err != nil {
		return nil, err
	}
	if len(cfg.Overrides) > 0 {
		in.Overrides = cfg.Overrides
	}
	return wizard.New(in, fn, wizard.WithLogger(log)), nil
}
