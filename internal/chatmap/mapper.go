package chatmap

import (
	"github.com/pkg/errors"

	"github.com/you/chat-fileout/internal/core"
)

// ErrMissingRequiredField marks a chat action that lacks a field every
// action must carry: the snippet or authorDetails sub-records, or any of the
// author-identity fields inside authorDetails. The whole invocation aborts
// on it; there is no per-record skip.
var ErrMissingRequiredField = errors.New("chat action missing required field")

// FromAction flattens one raw chat action into a fixed-schema ChatItem.
// snippet and authorDetails must be present, as must every author-identity
// field; all other fields are optional and resolve to the empty string when
// their variant branch is absent.
func FromAction(action map[string]any) (core.ChatItem, error) {
	snippet, ok := action["snippet"].(map[string]any)
	if !ok {
		return core.ChatItem{}, errors.Wrap(ErrMissingRequiredField, "snippet")
	}
	author, ok := action["authorDetails"].(map[string]any)
	if !ok {
		return core.ChatItem{}, errors.Wrap(ErrMissingRequiredField, "authorDetails")
	}

	authorChannelID, err := authorString(author, "channelId")
	if err != nil {
		return core.ChatItem{}, err
	}
	authorDisplayName, err := authorString(author, "displayName")
	if err != nil {
		return core.ChatItem{}, err
	}
	isVerified, err := authorBool(author, "isVerified")
	if err != nil {
		return core.ChatItem{}, err
	}
	isChatOwner, err := authorBool(author, "isChatOwner")
	if err != nil {
		return core.ChatItem{}, err
	}
	isChatSponsor, err := authorBool(author, "isChatSponsor")
	if err != nil {
		return core.ChatItem{}, err
	}
	isChatModerator, err := authorBool(author, "isChatModerator")
	if err != nil {
		return core.ChatItem{}, err
	}

	return core.ChatItem{
		MetaType:        GetByPath(snippet, "type"),
		MetaPublishedAt: GetByPath(snippet, "publishedAt"),

		MessageText:      GetByPath(snippet, "textMessageDetails", "messageText"),
		MessageChannelID: GetByPath(snippet, "authorChannelId"),

		DeletedMessageID: GetByPath(snippet, "messageDeletedDetails", "deletedMessageId"),

		MemberUserComment: GetByPath(snippet, "memberMilestoneChatDetails", "userComment"),
		MemberMonth:       GetByPath(snippet, "memberMilestoneChatDetails", "memberMonth"),
		MemberLevelName:   GetByPath(snippet, "memberMilestoneChatDetails", "memberLevelName"),

		NewSponsorLevelName: GetByPath(snippet, "newSponsorDetails", "memberLevelName"),
		NewSponsorUpgrade:   GetByPath(snippet, "newSponsorDetails", "isUpgrade"),

		SuperchatAmountMicros: GetByPath(snippet, "superChatDetails", "amountMicros"),
		SuperchatCurrency:     GetByPath(snippet, "superChatDetails", "currency"),
		SuperchatUserComment:  GetByPath(snippet, "superChatDetails", "userComment"),
		SuperchatTier:         GetByPath(snippet, "superChatDetails", "tier"),

		SuperstickerID:           GetByPath(snippet, "superStickerDetails", "superStickerMetadata", "stickerId"),
		SuperstickerAltText:      GetByPath(snippet, "superStickerDetails", "superStickerMetadata", "altText"),
		SuperstickerAmountMicros: GetByPath(snippet, "superStickerDetails", "amountMicros"),
		SuperstickerCurrency:     GetByPath(snippet, "superStickerDetails", "currency"),
		SuperstickerTier:         GetByPath(snippet, "superStickerDetails", "tier"),

		MemberGiftCount:     GetByPath(snippet, "membershipGiftingDetails", "giftMembershipsCount"),
		MemberGiftLevelName: GetByPath(snippet, "membershipGiftingDetails", "giftMembershipsLevelName"),

		MemberGiftReceiveLevelName: GetByPath(snippet, "giftMembershipReceivedDetails", "memberLevelName"),

		AuthorChannelID:       authorChannelID,
		AuthorDisplayName:     authorDisplayName,
		AuthorIsVerified:      isVerified,
		AuthorIsChatOwner:     isChatOwner,
		AuthorIsChatSponsor:   isChatSponsor,
		AuthorIsChatModerator: isChatModerator,

		BanChannelID:   GetByPath(snippet, "userBannedDetails", "bannedUserDetails", "channelId"),
		BanDisplayName: GetByPath(snippet, "userBannedDetails", "bannedUserDetails", "displayName"),
	}, nil
}

func authorString(author map[string]any, key string) (string, error) {
	s, ok := author[key].(string)
	if !ok {
		return "", errors.Wrapf(ErrMissingRequiredField, "authorDetails.%s", key)
	}
	return s, nil
}

func authorBool(author map[string]any, key string) (bool, error) {
	b, ok := author[key].(bool)
	if !ok {
		return false, errors.Wrapf(ErrMissingRequiredField, "authorDetails.%s", key)
	}
	return b, nil
}
