package entitlement

import (
	"fmt"

	"github.com/revuhub/entitlement/svc/catalog"
)

// Action is the closed vocabulary of gated operations. Unknown strings are
// rejected at parse time instead of silently evaluating to "denied".
type Action string

const (
	ActionReply                Action = "reply"
	ActionDispute              Action = "dispute"
	ActionPrivateReviews       Action = "private_reviews"
	ActionDNDMode              Action = "dnd_mode"
	ActionAutoResponse         Action = "auto_response"
	ActionDataAPI              Action = "data_api"
	ActionBranchComparison     Action = "branch_comparison"
	ActionCompetitorComparison Action = "competitor_comparison"
)

// featureActions maps feature-gated actions to the plan flag they read.
// Reply and dispute are absent on purpose: they are metered, not flagged.
var featureActions = map[Action]catalog.Feature{
	ActionPrivateReviews:       catalog.FeaturePrivateReviews,
	ActionDNDMode:              catalog.FeatureDNDMode,
	ActionAutoResponse:         catalog.FeatureAutoResponse,
	ActionDataAPI:              catalog.FeatureDataAPI,
	ActionBranchComparison:     catalog.FeatureBranchComparison,
	ActionCompetitorComparison: catalog.FeatureCompetitorComparison,
}

// ParseAction converts a wire string into an Action.
func ParseAction(s string) (Action, error) {
	a := Action(s)
	if a == ActionReply || a == ActionDispute {
		return a, nil
	}
	if _, ok := featureActions[a]; ok {
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// Metered reports whether the action consumes a monthly quota.
func (a Action) Metered() bool {
	return a == ActionReply || a == ActionDispute
}

// Feature returns the plan flag backing a feature-gated action.
func (a Action) Feature() (catalog.Feature, bool) {
	f, ok := featureActions[a]
	return f, ok
}
