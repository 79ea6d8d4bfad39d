package leaseledger

import "sort"

// extra_data keys consulted by state derivation.
const (
	extraKeyBatchID        = "batch_id"
	extraKeyMonthlyFee     = "monthly_fee"
	extraKeyLicensedEmails = "licensed_emails"
)

// DeriveSharingState reconstructs a document's current sharing/licensing
// state purely by replaying its activity history. Input order does not
// matter; activities are replayed oldest to newest so that last-write-wins
// applies to SHARE_WITH_FIRM and SHARE_MARKETPLACE. Only activities with
// status "success" participate; pending and failed rows exist for audit
// completeness only.
func DeriveSharingState(activities []*Activity) *SharingState {
	ordered := make([]*Activity, len(activities))
	copy(ordered, activities)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	state := &SharingState{
		ExternalShares: []ExternalShare{},
		Licenses:       []LicenseOffer{},
	}

	for _, a := range ordered {
		if a.Status != ActivityStatusSuccess {
			continue
		}

		switch a.Action {
		case ActionShareWithFirm:
			state.FirmShared = true
			state.FirmShare = &FirmShare{
				SharedAt:  a.CreatedAt,
				ActorID:   a.ActorID,
				Details:   a.Details,
				ExtraData: a.ExtraData,
			}

		case ActionShareExternal:
			state.ExternalShares = append(state.ExternalShares, ExternalShare{
				SharedAt: a.CreatedAt,
				ActorID:  a.ActorID,
				Details:  a.Details,
				BatchID:  extraString(a.ExtraData, extraKeyBatchID),
			})

		case ActionCreateLicenseOffer:
			state.Licenses = append(state.Licenses, LicenseOffer{
				CreatedAt:      a.CreatedAt,
				ActorID:        a.ActorID,
				Details:        a.Details,
				MonthlyFee:     extraFloat(a.ExtraData, extraKeyMonthlyFee),
				LicensedEmails: extraStrings(a.ExtraData, extraKeyLicensedEmails),
			})

		case ActionShareMarketplace:
			state.Marketplace = &MarketplaceListing{
				Status:   "listed",
				ListedAt: a.CreatedAt,
				ActorID:  a.ActorID,
				Details:  a.Details,
			}
		}
	}

	return state
}

func extraString(extra map[string]any, key string) string {
	if extra == nil {
		return ""
	}
	if s, ok := extra[key].(string); ok {
		return s
	}
	return ""
}

// extraFloat tolerates the numeric shapes a JSONB round-trip can produce.
func extraFloat(extra map[string]any, key string) float64 {
	if extra == nil {
		return 0
	}
	switch v := extra[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

func extraStrings(extra map[string]any, key string) []string {
	if extra == nil {
		return nil
	}
	switch v := extra[key].(type) {
	case []string:
		return v
	case []any:
		result := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		return result
	}
	return nil
}
