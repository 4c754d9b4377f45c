package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"github.com/thomaskoefod/cosmicgen/pkg/models"
)

type activityItem struct {
	rule models.ActivityTimingRule
}

func (i activityItem) Title() string {
	return i.rule.Activity
}

func (i activityItem) Description() string {
	good := strings.Join(i.rule.GoodDays, ", ")
	if good == "" {
		good = "any day"
	}
	return fmt.Sprintf("good: %s | numbers: %v", good, i.rule.GoodNumbers)
}

func (i activityItem) FilterValue() string {
	return i.rule.Activity
}

var _ list.Item = activityItem{}
