package prompt

import "unicode/utf8"

type keyKind int

const (
	keyRune keyKind = iota
	keyEnter
	keyBackspace
	keyUp
	keyDown
	keyEscape
	keyInterrupt
)

type keyEvent struct {
	kind keyKind
	r    rune
}

// decodeKeys splits one raw read into key events. A terminal delivers an
// escape sequence in a single write, so an ESC that is not followed by '['
// or 'O' in the same read is a lone Escape key.
func decodeKeys(b []byte) []keyEvent {
	var events []keyEvent
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c == 0x03:
			events = append(events, keyEvent{kind: keyInterrupt})
			i++
		case c == 0x1b:
			if i+2 < len(b) && (b[i+1] == '[' || b[i+1] == 'O') {
				switch b[i+2] {
				case 'A':
					events = append(events, keyEvent{kind: keyUp})
				case 'B':
					events = append(events, keyEvent{kind: keyDown})
				}
				i += 3
				continue
			}
			events = append(events, keyEvent{kind: keyEscape})
			i++
		case c == '\r' || c == '\n':
			events = append(events, keyEvent{kind: keyEnter})
			i++
		case c == 0x7f || c == 0x08:
			events = append(events, keyEvent{kind: keyBackspace})
			i++
		case c < 0x20:
			i++
		default:
			r, size := utf8.DecodeRune(b[i:])
			if r != utf8.RuneError {
				events = append(events, keyEvent{kind: keyRune, r: r})
			}
			i += size
		}
	}
	return events
}
