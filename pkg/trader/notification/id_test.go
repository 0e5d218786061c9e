package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestID_WireForms(t *testing.T) {
	assert.Equal(t, "installed", Installed().String())
	assert.Equal(t, "updated", Updated().String())
	assert.Equal(t, "new_comment", NewComment().String())
	assert.Equal(t, "offer_received_5551234", OfferReceived("5551234").String())
	assert.Equal(t, "new_inventory_items_1700000000", NewItems("1700000000").String())
	assert.Equal(t, "invite_76561198000000001", Invite("76561198000000001").String())
	assert.Equal(t, "20000000001", Bookmark("20000000001").String())
}

func TestParseID_RoundTrip(t *testing.T) {
	for _, id := range []ID{
		Installed(),
		Updated(),
		NewComment(),
		OfferReceived("5551234"),
		NewItems("1700000000"),
		Invite("76561198000000001"),
		SignedOut(),
		Bookmark("20000000001"),
	} {
		assert.Equal(t, id, ParseID(id.String()))
	}
}

func TestParseID_UnknownDefaultsToBookmark(t *testing.T) {
	id := ParseID("some_random_identifier")
	assert.Equal(t, KindBookmark, id.Kind)
	assert.Equal(t, "some_random_identifier", id.Payload)
}
