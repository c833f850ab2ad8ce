package model

import (
	"errors"
	"strings"
)

// ErrEmptyDescription is returned for items without a description.
var ErrEmptyDescription = errors.New("empty description")

// Item is one row of the release-gate table.
type Item struct {
	Description string `json:"description" yaml:"description"`
	Status      Status `json:"status" yaml:"status"`
	Remark      string `json:"remark,omitempty" yaml:"remark,omitempty"`
}

// NewItem trims its inputs and rejects a blank description.
func NewItem(description string, status Status, remark string) (Item, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return Item{}, ErrEmptyDescription
	}
	return Item{Description: description, Status: status, Remark: strings.TrimSpace(remark)}, nil
}
