package core

import (
	"fmt"
	"strconv"
)

// Trigger identifies one unit of work: a single (channel, video) pair whose
// chat archive should be flattened into a CSV. Title travels with the message
// but is not used by the pipeline.
type Trigger struct {
	VideoID   string `json:"video_id"`
	ChannelID string `json:"channel_id"`
	Title     string `json:"title"`
}

// ChatItem is one flattened live-chat action. Field order mirrors the CSV
// column order exactly; Fields and Values must stay in sync with the struct.
// Optional fields hold the raw decoded JSON value (string, number or bool)
// or the empty string when the source branch is absent.
type ChatItem struct {
	// meta
	MetaType        any
	MetaPublishedAt any
	// text message
	MessageText      any
	MessageChannelID any
	// deletion
	DeletedMessageID any
	// membership milestone
	MemberUserComment any
	MemberMonth       any
	MemberLevelName   any
	// new sponsor
	NewSponsorLevelName any
	NewSponsorUpgrade   any
	// superchat
	SuperchatAmountMicros any
	SuperchatCurrency     any
	SuperchatUserComment  any
	SuperchatTier         any
	// supersticker
	SuperstickerID           any
	SuperstickerAltText      any
	SuperstickerAmountMicros any
	SuperstickerCurrency     any
	SuperstickerTier         any
	// membership gifting (sender)
	MemberGiftCount     any
	MemberGiftLevelName any
	// membership gifting (receiver)
	MemberGiftReceiveLevelName any
	// author
	AuthorChannelID       string
	AuthorDisplayName     string
	AuthorIsVerified      bool
	AuthorIsChatOwner     bool
	AuthorIsChatSponsor   bool
	AuthorIsChatModerator bool
	// ban
	BanChannelID   any
	BanDisplayName any
}

// chatItemFields is the single source of truth for column order. The mapper
// fills ChatItem in this order and the CSV encoder emits it as the header.
var chatItemFields = []string{
	"meta_type",
	"meta_publishedat",
	"message_text",
	"message_channelid",
	"deleted_messageid",
	"member_usercomment",
	"member_month",
	"member_levelname",
	"newsponsor_levelname",
	"newsponsor_upgrade",
	"superchat_amountmicros",
	"superchat_currency",
	"superchat_usercomment",
	"superchat_tier",
	"supersticker_id",
	"supersticker_alttext",
	"supersticker_amountmicros",
	"supersticker_currency",
	"supersticker_tier",
	"membergift_count",
	"membergift_levelname",
	"membergiftreceive_levelname",
	"author_channel_id",
	"author_display_name",
	"author_is_verified",
	"author_is_chatowner",
	"author_is_chatsponsor",
	"author_is_chatmoderator",
	"ban_channelid",
	"ban_display_name",
}

// Fields returns the CSV column names in schema order.
func Fields() []string {
	return append([]string(nil), chatItemFields...)
}

// Values renders the item as one CSV row, in the same order as Fields.
func (c ChatItem) Values() []string {
	return []string{
		FormatValue(c.MetaType),
		FormatValue(c.MetaPublishedAt),
		FormatValue(c.MessageText),
		FormatValue(c.MessageChannelID),
		FormatValue(c.DeletedMessageID),
		FormatValue(c.MemberUserComment),
		FormatValue(c.MemberMonth),
		FormatValue(c.MemberLevelName),
		FormatValue(c.NewSponsorLevelName),
		FormatValue(c.NewSponsorUpgrade),
		FormatValue(c.SuperchatAmountMicros),
		FormatValue(c.SuperchatCurrency),
		FormatValue(c.SuperchatUserComment),
		FormatValue(c.SuperchatTier),
		FormatValue(c.SuperstickerID),
		FormatValue(c.SuperstickerAltText),
		FormatValue(c.SuperstickerAmountMicros),
		FormatValue(c.SuperstickerCurrency),
		FormatValue(c.SuperstickerTier),
		FormatValue(c.MemberGiftCount),
		FormatValue(c.MemberGiftLevelName),
		FormatValue(c.MemberGiftReceiveLevelName),
		c.AuthorChannelID,
		c.AuthorDisplayName,
		strconv.FormatBool(c.AuthorIsVerified),
		strconv.FormatBool(c.AuthorIsChatOwner),
		strconv.FormatBool(c.AuthorIsChatSponsor),
		strconv.FormatBool(c.AuthorIsChatModerator),
		FormatValue(c.BanChannelID),
		FormatValue(c.BanDisplayName),
	}
}

// FormatValue renders a decoded JSON scalar in its natural textual form:
// booleans as true/false, numbers in default decimal notation, strings
// verbatim and nil as the empty string.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprint(t)
	}
}
