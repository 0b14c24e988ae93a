package chatmap

import (
	"errors"
	"testing"

	"github.com/you/chat-fileout/internal/core"
)

func author() map[string]any {
	return map[string]any{
		"channelId":       "UC123",
		"displayName":     "viewer",
		"isVerified":      false,
		"isChatOwner":     false,
		"isChatSponsor":   true,
		"isChatModerator": false,
	}
}

func TestFromActionSuperchatOnly(t *testing.T) {
	action := map[string]any{
		"snippet": map[string]any{
			"type":        "superChatEvent",
			"publishedAt": "2023-04-01T12:00:00Z",
			"superChatDetails": map[string]any{
				"amountMicros": float64(2000000),
				"currency":     "JPY",
				"tier":         float64(1),
			},
		},
		"authorDetails": author(),
	}

	item, err := FromAction(action)
	if err != nil {
		t.Fatalf("FromAction: %v", err)
	}
	if got := core.FormatValue(item.SuperchatAmountMicros); got != "2000000" {
		t.Fatalf("superchat amount = %q, want 2000000", got)
	}
	if item.SuperchatCurrency != "JPY" {
		t.Fatalf("superchat currency = %#v, want JPY", item.SuperchatCurrency)
	}
	if got := core.FormatValue(item.SuperchatTier); got != "1" {
		t.Fatalf("superchat tier = %q, want 1", got)
	}

	// Every other category stays at its empty default.
	for name, v := range map[string]any{
		"message_text":                item.MessageText,
		"message_channelid":           item.MessageChannelID,
		"deleted_messageid":           item.DeletedMessageID,
		"member_usercomment":          item.MemberUserComment,
		"member_month":                item.MemberMonth,
		"member_levelname":            item.MemberLevelName,
		"newsponsor_levelname":        item.NewSponsorLevelName,
		"newsponsor_upgrade":          item.NewSponsorUpgrade,
		"superchat_usercomment":       item.SuperchatUserComment,
		"supersticker_id":             item.SuperstickerID,
		"supersticker_alttext":        item.SuperstickerAltText,
		"supersticker_amountmicros":   item.SuperstickerAmountMicros,
		"supersticker_currency":       item.SuperstickerCurrency,
		"supersticker_tier":           item.SuperstickerTier,
		"membergift_count":            item.MemberGiftCount,
		"membergift_levelname":        item.MemberGiftLevelName,
		"membergiftreceive_levelname": item.MemberGiftReceiveLevelName,
		"ban_channelid":               item.BanChannelID,
		"ban_display_name":            item.BanDisplayName,
	} {
		if v != "" {
			t.Fatalf("%s = %#v, want empty string", name, v)
		}
	}

	if !item.AuthorIsChatSponsor || item.AuthorChannelID != "UC123" {
		t.Fatalf("author fields not carried: %+v", item)
	}
}

func TestFromActionTextMessage(t *testing.T) {
	action := map[string]any{
		"snippet": map[string]any{
			"type":            "textMessageEvent",
			"publishedAt":     "2023-04-01T12:00:01Z",
			"authorChannelId": "UC123",
			"textMessageDetails": map[string]any{
				"messageText": "konnichiwa",
			},
		},
		"authorDetails": author(),
	}

	item, err := FromAction(action)
	if err != nil {
		t.Fatalf("FromAction: %v", err)
	}
	if item.MessageText != "konnichiwa" {
		t.Fatalf("message text = %#v", item.MessageText)
	}
	if item.MessageChannelID != "UC123" {
		t.Fatalf("message channel id = %#v", item.MessageChannelID)
	}
	if item.MetaType != "textMessageEvent" {
		t.Fatalf("meta type = %#v", item.MetaType)
	}
}

func TestFromActionBan(t *testing.T) {
	action := map[string]any{
		"snippet": map[string]any{
			"type":        "userBannedEvent",
			"publishedAt": "2023-04-01T12:00:02Z",
			"userBannedDetails": map[string]any{
				"bannedUserDetails": map[string]any{
					"channelId":   "UCbanned",
					"displayName": "troll",
				},
			},
		},
		"authorDetails": author(),
	}

	item, err := FromAction(action)
	if err != nil {
		t.Fatalf("FromAction: %v", err)
	}
	if item.BanChannelID != "UCbanned" || item.BanDisplayName != "troll" {
		t.Fatalf("ban fields = %#v / %#v", item.BanChannelID, item.BanDisplayName)
	}
}

func TestFromActionAuthorFieldsRequired(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(author map[string]any)
	}{
		{"missing channelId", func(a map[string]any) { delete(a, "channelId") }},
		{"missing displayName", func(a map[string]any) { delete(a, "displayName") }},
		{"missing isVerified", func(a map[string]any) { delete(a, "isVerified") }},
		{"missing isChatModerator", func(a map[string]any) { delete(a, "isChatModerator") }},
		{"channelId wrong type", func(a map[string]any) { a["channelId"] = float64(42) }},
		{"isVerified wrong type", func(a map[string]any) { a["isVerified"] = "yes" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := author()
			tc.mutate(a)
			action := map[string]any{
				"snippet":       map[string]any{"type": "textMessageEvent"},
				"authorDetails": a,
			}
			if _, err := FromAction(action); !errors.Is(err, ErrMissingRequiredField) {
				t.Fatalf("expected ErrMissingRequiredField, got %v", err)
			}
		})
	}
}

func TestFromActionMissingRequired(t *testing.T) {
	cases := []struct {
		name   string
		action map[string]any
	}{
		{"no authorDetails", map[string]any{"snippet": map[string]any{"type": "textMessageEvent"}}},
		{"no snippet", map[string]any{"authorDetails": author()}},
		{"both missing", map[string]any{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := FromAction(tc.action); !errors.Is(err, ErrMissingRequiredField) {
				t.Fatalf("expected ErrMissingRequiredField, got %v", err)
			}
		})
	}
}
