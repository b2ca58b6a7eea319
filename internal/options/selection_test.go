package options_test

import (
	"testing"

	"warung-orders/internal/domain"
	"warung-orders/internal/options"

	"github.com/stretchr/testify/assert"
)

func testOptions() []domain.MenuOption {
	return []domain.MenuOption{
		{
			ID: 1, Label: "Size", SelectionType: domain.SelectionSingleRequired, IsRequired: true,
			Items: []domain.MenuOptionItem{
				{ID: 10, OptionID: 1, Label: "Regular", AdditionalPrice: 0, IsAvailable: true},
				{ID: 11, OptionID: 1, Label: "Large", AdditionalPrice: 3000, IsAvailable: true},
			},
		},
		{
			ID: 2, Label: "Ice", SelectionType: domain.SelectionSingleOptional,
			Items: []domain.MenuOptionItem{
				{ID: 20, OptionID: 2, Label: "Less ice", IsAvailable: true},
			},
		},
		{
			ID: 3, Label: "Toppings", SelectionType: domain.SelectionMultiple, MaxSelections: 2,
			Items: []domain.MenuOptionItem{
				{ID: 30, OptionID: 3, Label: "Cheese", AdditionalPrice: 2000, IsAvailable: true},
				{ID: 31, OptionID: 3, Label: "Bacon", AdditionalPrice: 4000, IsAvailable: true},
				{ID: 32, OptionID: 3, Label: "Egg", AdditionalPrice: 1500, IsAvailable: true},
				{ID: 33, OptionID: 3, Label: "Truffle", AdditionalPrice: 9000, IsAvailable: false},
			},
		},
	}
}

func TestSelect_SingleReplaces(t *testing.T) {
	s := options.NewSession(testOptions())

	assert.NoError(t, s.Select(1, 10))
	assert.NoError(t, s.Select(1, 11))

	assert.Equal(t, map[int][]int{1: {11}}, s.Selections())
}

func TestSelect_MultipleTogglesAndCaps(t *testing.T) {
	s := options.NewSession(testOptions())

	assert.NoError(t, s.Select(3, 30))
	assert.NoError(t, s.Select(3, 31))

	// at max_selections, a third pick is a no-op
	assert.NoError(t, s.Select(3, 32))
	assert.Equal(t, map[int][]int{3: {30, 31}}, s.Selections())

	// toggling an existing member off frees a slot
	assert.NoError(t, s.Select(3, 30))
	assert.NoError(t, s.Select(3, 32))
	assert.Equal(t, map[int][]int{3: {31, 32}}, s.Selections())
}

func TestSelect_UnavailableItemRejected(t *testing.T) {
	s := options.NewSession(testOptions())

	err := s.Select(3, 33)
	assert.ErrorIs(t, err, options.ErrItemUnavailable)
	assert.Empty(t, s.Selections())
}

func TestSelect_UnknownIDs(t *testing.T) {
	s := options.NewSession(testOptions())

	assert.ErrorIs(t, s.Select(99, 10), options.ErrUnknownOption)
	assert.ErrorIs(t, s.Select(1, 99), options.ErrUnknownOptionItem)
}

func TestDeselect(t *testing.T) {
	s := options.NewSession(testOptions())

	assert.NoError(t, s.Select(1, 10))
	assert.NoError(t, s.Select(2, 20))

	// optional selections clear, required ones stay
	s.Deselect(2, 20)
	s.Deselect(1, 10)
	assert.Equal(t, map[int][]int{1: {10}}, s.Selections())
}

func TestIsComplete(t *testing.T) {
	s := options.NewSession(testOptions())

	assert.False(t, s.IsComplete())
	missing := s.MissingRequired()
	assert.Len(t, missing, 1)
	assert.Equal(t, "Size", missing[0].Label)

	assert.NoError(t, s.Select(1, 10))
	assert.True(t, s.IsComplete())
	assert.Empty(t, s.MissingRequired())
}

func TestRestore_DropsInvalidSelections(t *testing.T) {
	s := options.Restore(testOptions(), map[int][]int{
		1:  {11},
		3:  {30, 33, 99}, // unavailable and unknown ids dropped
		42: {1},          // unknown option dropped
	})

	assert.Equal(t, map[int][]int{1: {11}, 3: {30}}, s.Selections())
	assert.True(t, s.IsComplete())
}

func TestLabels(t *testing.T) {
	opts := testOptions()
	got := options.Labels(opts, map[int][]int{3: {30, 31}, 1: {11}})

	assert.Equal(t, []string{"Size: Large", "Toppings: Cheese, Bacon"}, got)
}
