package ebml

import "fmt"

// ID is an EBML element ID including its length-marker bits.
type ID uint32

// Kind is the payload type of an element.
type Kind uint8

// Element kinds.
const (
	KindUnknown Kind = iota // not in the table, skipped by declared size
	KindMaster
	KindUint
	KindString
	KindUTF8
	KindBinary
	KindFloat
)

// Element IDs used when looking for track metadata.
const (
	IDEBML     ID = 0x1A45DFA3
	IDDocType  ID = 0x4282
	IDVoid     ID = 0xEC
	IDCRC32    ID = 0xBF
	IDSegment  ID = 0x18538067
	IDSeekHead ID = 0x114D9B74
	IDInfo     ID = 0x1549A966
	IDCluster  ID = 0x1F43B675
	IDCues     ID = 0x1C53BB6B
	IDChapters ID = 0x1043A770
	IDTags     ID = 0x1254C367

	IDAttachments ID = 0x1941A469

	IDTracks       ID = 0x1654AE6B
	IDTrackEntry   ID = 0xAE
	IDTrackNumber  ID = 0xD7
	IDTrackUID     ID = 0x73C5
	IDTrackType    ID = 0x83
	IDFlagEnabled  ID = 0xB9
	IDFlagDefault  ID = 0x88
	IDFlagForced   ID = 0x55AA
	IDName         ID = 0x536E
	IDLanguage     ID = 0x22B59C
	IDCodecID      ID = 0x86
	IDCodecPrivate ID = 0x63A2
	IDVideo        ID = 0xE0
	IDAudio        ID = 0xE1
)

type elementInfo struct {
	name string
	kind Kind
}

var elements = map[ID]elementInfo{
	IDEBML:         {"EBML", KindMaster},
	IDDocType:      {"DocType", KindString},
	IDVoid:         {"Void", KindBinary},
	IDCRC32:        {"CRC-32", KindBinary},
	IDSegment:      {"Segment", KindMaster},
	IDSeekHead:     {"SeekHead", KindMaster},
	IDInfo:         {"Info", KindMaster},
	IDCluster:      {"Cluster", KindMaster},
	IDCues:         {"Cues", KindMaster},
	IDChapters:     {"Chapters", KindMaster},
	IDTags:         {"Tags", KindMaster},
	IDAttachments:  {"Attachments", KindMaster},
	IDTracks:       {"Tracks", KindMaster},
	IDTrackEntry:   {"TrackEntry", KindMaster},
	IDTrackNumber:  {"TrackNumber", KindUint},
	IDTrackUID:     {"TrackUID", KindUint},
	IDTrackType:    {"TrackType", KindUint},
	IDFlagEnabled:  {"FlagEnabled", KindUint},
	IDFlagDefault:  {"FlagDefault", KindUint},
	IDFlagForced:   {"FlagForced", KindUint},
	IDName:         {"Name", KindUTF8},
	IDLanguage:     {"Language", KindString},
	IDCodecID:      {"CodecID", KindString},
	IDCodecPrivate: {"CodecPrivate", KindBinary},
	IDVideo:        {"Video", KindMaster},
	IDAudio:        {"Audio", KindMaster},
}

// Kind returns the payload type registered for the ID, or KindUnknown.
func (id ID) Kind() Kind {
	return elements[id].kind
}

// Known reports whether the ID is in the element table.
func (id ID) Known() bool {
	_, ok := elements[id]
	return ok
}

// String returns the element name, or the hex ID for unknown elements.
func (id ID) String() string {
	if info, ok := elements[id]; ok {
		return info.name
	}
	return fmt.Sprintf("0x%X", uint32(id))
}

// Bytes returns the big-endian wire form of the ID.
func (id ID) Bytes() []byte {
	switch {
	case id <= 0xFF:
		return []byte{byte(id)}
	case id <= 0xFFFF:
		return []byte{byte(id >> 8), byte(id)}
	case id <= 0xFFFFFF:
		return []byte{byte(id >> 16), byte(id >> 8), byte(id)}
	default:
		return []byte{byte(id >> 24), byte(id >> 16), byte(id >> 8), byte(id)}
	}
}
