package float

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetIDFromInspectLink(t *testing.T) {
	assetID, err := AssetIDFromInspectLink("S76561198084000000A31480000000D14382918230914234")
	require.NoError(t, err)
	assert.Equal(t, "31480000000", assetID)

	for _, link := range []string{
		"",
		"not-a-link",
		"S76561198084000000A",
		"S76561198084000000AD123",
	} {
		_, err := AssetIDFromInspectLink(link)
		assert.Error(t, err, "link: %s", link)
	}
}
