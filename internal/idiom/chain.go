package idiom

// CanChain reports whether next may follow prev in the chain: the phonetic
// key of prev's last character must equal the key of next's first
// character. Order matters; the relation is not commutative.
func CanChain(prev, next Idiom) error {
	if prev.Empty() || next.Empty() {
		return ErrEmptyInput
	}
	if prev.LastKey != next.FirstKey {
		return &ChainMismatchError{
			PrevTail: prev.Tail(),
			NextHead: next.Head(),
			PrevKey:  prev.LastKey,
			NextKey:  next.FirstKey,
		}
	}
	return nil
}
