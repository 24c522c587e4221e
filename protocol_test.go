package lanmac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProtocolNames(t *testing.T) {
	assert.Equal(t, []string{"Pure ALOHA", "Slotted ALOHA", "1-persistent CSMA", "0.5-persistent CSMA", "CSMA/CD"}, ProtocolNames())

	for _, proto := range Protocols {
		byName, err := ProtocolFromStr(proto.String())
		require.NoError(t, err)
		assert.Equal(t, proto, byName)

		bySlug, err := ProtocolFromStr(proto.Slug())
		require.NoError(t, err)
		assert.Equal(t, proto, bySlug)
	}
}

func TestProtocolFromStrUnknown(t *testing.T) {
	_, err := ProtocolFromStr("token ring")
	assert.Error(t, err)
	assert.Equal(t, "Unknown", unknownProtocol.String())
}
