package core

import "fmt"

// SelectionKind tags the variants of an alignment slot.
type SelectionKind int

const (
	// SelectNone leaves the slot empty.
	SelectNone SelectionKind = iota
	// SelectChannel picks one extracted channel.
	SelectChannel
	// SelectMerge picks the composite built from the current merge
	// checkboxes.
	SelectMerge
)

// Selection is one alignment slot, decided once at the UI boundary
// instead of re-parsing drop-down strings in every consumer.
type Selection struct {
	Kind SelectionKind
	// Channel is the 0-based channel index, valid only when Kind is
	// SelectChannel.
	Channel int
}

// SelectionOptions are the drop-down labels offered for each alignment
// slot, in display order.
var SelectionOptions = []string{"None", "Ch1", "Ch2", "Ch3", "Ch4", "Merge"}

// ParseSelection maps a drop-down label onto its tagged variant.
// Unknown labels resolve to None.
func ParseSelection(label string) Selection {
	switch label {
	case "Ch1", "Ch2", "Ch3", "Ch4":
		return Selection{Kind: SelectChannel, Channel: int(label[2]-'0') - 1}
	case "Merge":
		return Selection{Kind: SelectMerge}
	default:
		return Selection{Kind: SelectNone}
	}
}

func (s Selection) String() string {
	switch s.Kind {
	case SelectChannel:
		return fmt.Sprintf("Ch%d", s.Channel+1)
	case SelectMerge:
		return "Merge"
	default:
		return "None"
	}
}
