package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/vgx/internal/models"
)

var _ list.Item = catalogItem{}

// catalogItem wraps [models.Descriptor] to implement [list.Item].
type catalogItem struct {
	descriptor models.Descriptor
}

func (i catalogItem) FilterValue() string { return i.descriptor.Title }
func (i catalogItem) Title() string       { return i.descriptor.Title }
func (i catalogItem) Description() string {
	desc := i.descriptor.Artist
	if i.descriptor.Game != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.descriptor.Game)
	}
	return desc
}
