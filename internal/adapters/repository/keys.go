package repository

import "strconv"

// KeyKind tags the record type a key points at.
type KeyKind uint8

// Key kinds.
const (
	KindContest KeyKind = iota
	KindActiveIndex
	KindEntry
	KindEntryIndex
	KindWinners
	KindPrize
	KindNextID
)

// Key is a typed storage key. Only the fields relevant to a kind are set.
type Key struct {
	Kind      KeyKind
	ContestID uint64
	Provider  string
}

// String renders the canonical storage encoding of the key.
func (k Key) String() string {
	id := strconv.FormatUint(k.ContestID, 10)
	switch k.Kind {
	case KindContest:
		return "contest/" + id
	case KindActiveIndex:
		return "contest/active"
	case KindEntry:
		return "entry/" + id + "/" + k.Provider
	case KindEntryIndex:
		return "entry/" + id + "/index"
	case KindWinners:
		return "winners/" + id
	case KindPrize:
		return "prize/" + id + "/" + k.Provider
	case KindNextID:
		return "next_id"
	default:
		return "unknown"
	}
}

// ContestKey addresses a contest record.
func ContestKey(contestID uint64) Key {
	return Key{Kind: KindContest, ContestID: contestID}
}

// ActiveIndexKey addresses the active-contest id list.
func ActiveIndexKey() Key {
	return Key{Kind: KindActiveIndex}
}

// EntryKey addresses one provider's entry within a contest.
func EntryKey(contestID uint64, provider string) Key {
	return Key{Kind: KindEntry, ContestID: contestID, Provider: provider}
}

// EntryIndexKey addresses the list of providers holding entries in a
// contest.
func EntryIndexKey(contestID uint64) Key {
	return Key{Kind: KindEntryIndex, ContestID: contestID}
}

// WinnersKey addresses a contest's winner list.
func WinnersKey(contestID uint64) Key {
	return Key{Kind: KindWinners, ContestID: contestID}
}

// PrizeKey addresses one winner's prize record.
func PrizeKey(contestID uint64, provider string) Key {
	return Key{Kind: KindPrize, ContestID: contestID, Provider: provider}
}

// NextIDKey addresses the contest id counter.
func NextIDKey() Key {
	return Key{Kind: KindNextID}
}
