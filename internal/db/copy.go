package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/gyeh/notewizard/internal/model"
)

var errEmptyIdentifier = errors.New("dispatch row has empty identifier")

// ChannelSource feeds COPY from a channel of dispatch rows. It stops early,
// reporting ctx.Err(), if the context is cancelled before the channel closes.
type ChannelSource struct {
	ctx     context.Context
	ch      <-chan *model.DispatchCodeRow
	current *model.DispatchCodeRow
	count   int
	err     error
}

func NewChannelSource(ctx context.Context, ch <-chan *model.DispatchCodeRow) *ChannelSource {
	return &ChannelSource{ctx: ctx, ch: ch}
}

// Next advances to the next non-nil row.
func (s *ChannelSource) Next() bool {
	for {
		select {
		case <-s.ctx.Done():
			s.err = s.ctx.Err()
			return false
		case row, ok := <-s.ch:
			if !ok {
				return false
			}
			if row == nil {
				continue
			}
			s.current = row
			s.count++
			return true
		}
	}
}

// Values returns the current row in dispatched_codes column order.
func (s *ChannelSource) Values() ([]any, error) {
	if s.current.Identifier == "" {
		return nil, errEmptyIdentifier
	}
	return s.current.CopyValues(), nil
}

func (s *ChannelSource) Err() error {
	return s.err
}

// Count is the number of rows handed to COPY so far.
func (s *ChannelSource) Count() int { return s.count }

var _ pgx.CopyFromSource = (*ChannelSource)(nil)
