package options

import (
	"errors"
	"sort"
	"strings"

	"warung-orders/internal/domain"
)

var (
	ErrUnknownOption     = errors.New("option does not belong to this item")
	ErrUnknownOptionItem = errors.New("option item does not belong to this option")
	ErrItemUnavailable   = errors.New("option item is not available")
)

// IncompleteError reports which required options still have no selection.
// Callers surface it before any pricing or persistence happens.
type IncompleteError struct {
	Missing []string
}

func (e *IncompleteError) Error() string {
	return "required options not selected: " + strings.Join(e.Missing, ", ")
}

// Incomplete builds an IncompleteError from a session, or nil when every
// required option is satisfied.
func (s *Session) Incomplete() *IncompleteError {
	missing := s.MissingRequired()
	if len(missing) == 0 {
		return nil
	}
	labels := make([]string, len(missing))
	for i, opt := range missing {
		labels[i] = opt.Label
	}
	return &IncompleteError{Missing: labels}
}

// Session tracks the customization choices for one menu item while the
// customer is still deciding. Nothing persists until the priced line is
// actually added to the cart.
type Session struct {
	options  []domain.MenuOption
	selected map[int][]int // option id -> chosen option item ids, in pick order
}

func NewSession(opts []domain.MenuOption) *Session {
	return &Session{
		options:  opts,
		selected: make(map[int][]int),
	}
}

// Restore rebuilds a session from previously exported selections, dropping
// anything that no longer passes the selection rules.
func Restore(opts []domain.MenuOption, selections map[int][]int) *Session {
	s := NewSession(opts)
	for optionID, itemIDs := range selections {
		for _, itemID := range itemIDs {
			_ = s.Select(optionID, itemID)
		}
	}
	return s
}

func (s *Session) option(optionID int) *domain.MenuOption {
	for i := range s.options {
		if s.options[i].ID == optionID {
			return &s.options[i]
		}
	}
	return nil
}

func (s *Session) item(opt *domain.MenuOption, itemID int) *domain.MenuOptionItem {
	for i := range opt.Items {
		if opt.Items[i].ID == itemID {
			return &opt.Items[i]
		}
	}
	return nil
}

// Select applies one choice. Single-selection options replace their current
// choice; "multiple" toggles membership and refuses to grow past
// MaxSelections. Unavailable items are never selectable.
func (s *Session) Select(optionID, itemID int) error {
	opt := s.option(optionID)
	if opt == nil {
		return ErrUnknownOption
	}
	optItem := s.item(opt, itemID)
	if optItem == nil {
		return ErrUnknownOptionItem
	}
	if !optItem.IsAvailable {
		return ErrItemUnavailable
	}

	current := s.selected[optionID]
	switch opt.SelectionType {
	case domain.SelectionMultiple:
		for i, id := range current {
			if id == itemID {
				s.selected[optionID] = append(current[:i], current[i+1:]...)
				return nil
			}
		}
		if opt.MaxSelections > 0 && len(current) >= opt.MaxSelections {
			return nil // at capacity, toggle-on is a no-op
		}
		s.selected[optionID] = append(current, itemID)
	default:
		s.selected[optionID] = []int{itemID}
	}
	return nil
}

// Deselect clears a choice. Required single options keep their selection;
// the only way to change them is picking another item.
func (s *Session) Deselect(optionID, itemID int) {
	opt := s.option(optionID)
	if opt == nil || opt.SelectionType == domain.SelectionSingleRequired {
		return
	}
	current := s.selected[optionID]
	for i, id := range current {
		if id == itemID {
			s.selected[optionID] = append(current[:i], current[i+1:]...)
			return
		}
	}
}

// IsComplete reports whether every required option has a selection.
func (s *Session) IsComplete() bool {
	return len(s.MissingRequired()) == 0
}

// MissingRequired lists the required options that still have no selection,
// in catalog order.
func (s *Session) MissingRequired() []domain.MenuOption {
	var missing []domain.MenuOption
	for _, opt := range s.options {
		if opt.IsRequired && len(s.selected[opt.ID]) == 0 {
			missing = append(missing, opt)
		}
	}
	return missing
}

// Selections exports the current state as option id -> sorted item ids.
// Empty sets are omitted so two sessions with the same effective choices
// export identical maps.
func (s *Session) Selections() map[int][]int {
	out := make(map[int][]int, len(s.selected))
	for optionID, itemIDs := range s.selected {
		if len(itemIDs) == 0 {
			continue
		}
		ids := make([]int, len(itemIDs))
		copy(ids, itemIDs)
		sort.Ints(ids)
		out[optionID] = ids
	}
	return out
}

// Labels resolves the current selections to human-readable
// "Option: item, item" strings in catalog order, for snapshotting onto
// order items.
func Labels(opts []domain.MenuOption, selections map[int][]int) []string {
	var out []string
	for _, opt := range opts {
		itemIDs, ok := selections[opt.ID]
		if !ok || len(itemIDs) == 0 {
			continue
		}
		label := opt.Label + ": "
		first := true
		for _, itemID := range itemIDs {
			for _, optItem := range opt.Items {
				if optItem.ID == itemID {
					if !first {
						label += ", "
					}
					label += optItem.Label
					first = false
					break
				}
			}
		}
		out = append(out, label)
	}
	return out
}
