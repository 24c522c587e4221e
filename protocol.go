package lanmac

// protocol.go holds the enumerated type of multiple-access protocols
// and the mappings between protocols and their display names

import (
	"fmt"
	"strings"
)

// Protocol is the base type for an enumerated type of medium access protocols
type Protocol int

const (
	PureAloha Protocol = iota
	SlottedAloha
	Persistent1CSMA
	Persistent0_5CSMA
	CsmaCd
	unknownProtocol
)

// Protocols lists every simulated protocol in reporting order
var Protocols = []Protocol{PureAloha, SlottedAloha, Persistent1CSMA, Persistent0_5CSMA, CsmaCd}

var protocolToStr map[Protocol]string = map[Protocol]string{
	PureAloha:         "Pure ALOHA",
	SlottedAloha:      "Slotted ALOHA",
	Persistent1CSMA:   "1-persistent CSMA",
	Persistent0_5CSMA: "0.5-persistent CSMA",
	CsmaCd:            "CSMA/CD",
}

// ProtocolNames returns the display names of all protocols, in reporting order
func ProtocolNames() []string {
	names := make([]string, 0, len(Protocols))
	for _, proto := range Protocols {
		names = append(names, proto.String())
	}
	return names
}

// String returns the display name of the protocol
func (proto Protocol) String() string {
	name, present := protocolToStr[proto]
	if !present {
		return "Unknown"
	}
	return name
}

// Slug returns a name for the protocol that is safe to use in a file name
func (proto Protocol) Slug() string {
	switch proto {
	case PureAloha:
		return "pure-aloha"
	case SlottedAloha:
		return "slotted-aloha"
	case Persistent1CSMA:
		return "1-persistent-csma"
	case Persistent0_5CSMA:
		return "0.5-persistent-csma"
	case CsmaCd:
		return "csma-cd"
	}
	return "unknown"
}

// ProtocolFromStr returns the Protocol corresponding to a name for it.
// Display names, slugs, and a few common abbreviations are accepted.
func ProtocolFromStr(name string) (Protocol, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "pure aloha", "pure-aloha", "aloha":
		return PureAloha, nil
	case "slotted aloha", "slotted-aloha":
		return SlottedAloha, nil
	case "1-persistent csma", "1-persistent-csma", "csma":
		return Persistent1CSMA, nil
	case "0.5-persistent csma", "0.5-persistent-csma", "p-csma":
		return Persistent0_5CSMA, nil
	case "csma/cd", "csma-cd", "csmacd":
		return CsmaCd, nil
	}
	return unknownProtocol, fmt.Errorf("protocol %q is not recognized", name)
}
