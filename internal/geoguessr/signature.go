package geoguessr

// Signature summarizes the identity of the game in state and how far it has
// progressed. The page rewrites its state on every client-side transition,
// and most rewrites leave the signature unchanged. False means no game is
// present.
func Signature(state RawState) (string, bool) {
	l, ok := locate(state)
	if !ok {
		return "", false
	}
	id, ok := signatureID.read(l.game)
	if !ok {
		id = "-"
	}
	round, ok := signatureRound.read(l.game)
	if !ok {
		round = "-"
	}
	return string(l.mode) + ":" + id + ":" + round, true
}

// Detector gates re-extraction on signature changes. It is owned by a single
// observer loop and is not safe for concurrent use.
type Detector struct {
	last string
	seen bool
}

// Changed reports whether sig differs from the last committed signature.
// Before the first commit every signature counts as changed.
func (d *Detector) Changed(sig string) bool {
	return !d.seen || d.last != sig
}

// Commit records sig after a successful extraction.
func (d *Detector) Commit(sig string) {
	d.last = sig
	d.seen = true
}

// Reset forgets the last signature so the next observation always extracts.
func (d *Detector) Reset() {
	d.last = ""
	d.seen = false
}
