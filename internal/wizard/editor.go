package wizard

import "unicode/utf8"

// NoteEditor inserts text into the working note at the current cursor. It is
// handed to whatever drives insertions from outside the editor, such as an
// answered clarification question.
type NoteEditor interface {
	InsertAtCursor(text string)
}

type sessionEditor struct{ s *Session }

func (e sessionEditor) InsertAtCursor(text string) { e.s.InsertText(text) }

// Editor returns the note-editing port bound to this session.
func (s *Session) Editor() NoteEditor { return sessionEditor{s: s} }

// clampCursor bounds pos to the note and moves it back onto a rune boundary.
func clampCursor(note string, pos int) int {
	if pos < 0 {
		return 0
	}
	if pos > len(note) {
		return len(note)
	}
	for pos > 0 && pos < len(note) && !utf8.RuneStart(note[pos]) {
		pos--
	}
	return pos
}
