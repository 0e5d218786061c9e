package notification

import (
	"strings"
)

// Kind classifies a notification identifier
type Kind uint8

const (
	KindInstalled Kind = iota
	KindUpdated
	KindNewComment
	KindOfferReceived
	KindNewItems
	KindInvite
	KindSignedOut
	KindBookmark
)

const (
	idInstalled  = "installed"
	idUpdated    = "updated"
	idNewComment = "new_comment"
	idSignedOut  = "signed_out"

	prefixOfferReceived = "offer_received_"
	prefixNewItems      = "new_inventory_items_"
	prefixInvite        = "invite_"
)

// ID identifies a notification both at creation and when its click
// action routes back. Payload carries the embedded offer id, timestamp,
// steam id or bookmark asset id, depending on Kind.
type ID struct {
	Kind    Kind
	Payload string
}

func Installed() ID  { return ID{Kind: KindInstalled} }
func Updated() ID    { return ID{Kind: KindUpdated} }
func NewComment() ID { return ID{Kind: KindNewComment} }
func OfferReceived(offerID string) ID {
	return ID{Kind: KindOfferReceived, Payload: offerID}
}
func NewItems(timestamp string) ID {
	return ID{Kind: KindNewItems, Payload: timestamp}
}
func Invite(steamID string) ID {
	return ID{Kind: KindInvite, Payload: steamID}
}
func Bookmark(assetID string) ID {
	return ID{Kind: KindBookmark, Payload: assetID}
}
func SignedOut() ID { return ID{Kind: KindSignedOut} }

// String serializes an ID to its wire form
func (id ID) String() string {
	switch id.Kind {
	case KindInstalled:
		return idInstalled
	case KindUpdated:
		return idUpdated
	case KindNewComment:
		return idNewComment
	case KindSignedOut:
		return idSignedOut
	case KindOfferReceived:
		return prefixOfferReceived + id.Payload
	case KindNewItems:
		return prefixNewItems + id.Payload
	case KindInvite:
		return prefixInvite + id.Payload
	default:
		return id.Payload
	}
}

// ParseID decodes the wire form of an ID. Anything that is not a fixed
// name or a known prefix is a bookmark asset id.
func ParseID(raw string) ID {
	switch raw {
	case idInstalled:
		return Installed()
	case idUpdated:
		return Updated()
	case idNewComment:
		return NewComment()
	case idSignedOut:
		return SignedOut()
	}

	if suffix, ok := strings.CutPrefix(raw, prefixOfferReceived); ok {
		return OfferReceived(suffix)
	}
	if suffix, ok := strings.CutPrefix(raw, prefixNewItems); ok {
		return NewItems(suffix)
	}
	if suffix, ok := strings.CutPrefix(raw, prefixInvite); ok {
		return Invite(suffix)
	}

	return Bookmark(raw)
}
