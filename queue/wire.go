package queue

import (
	"encoding/binary"

	"github.com/AFLplusplus/libafl-go/engine"
)

// entryRecordSize is the fixed width of one entry header record within
// a base queue's exported shared-memory table. Kept separate from the
// map channel's size, so sizing one can never accidentally resize the
// other.
const entryRecordSize = 128

const (
	filenameFieldLen  = 40
	queueNameFieldLen = 24
)

// encodeEntryHeader serializes h into the fixed-width, pointer-free wire
// format shared between the queue's shared-memory mirror and the
// engine's broadcast message.
func encodeEntryHeader(h engine.QueueEntryHeader) []byte {
	buf := make([]byte, entryRecordSize)
	binary.LittleEndian.PutUint64(buf[0:8], h.ID)
	binary.LittleEndian.PutUint64(buf[8:16], h.ParentID)
	if h.HasParent {
		buf[16] = 1
	}
	binary.LittleEndian.PutUint32(buf[17:21], h.InputLen)
	binary.LittleEndian.PutUint32(buf[21:25], h.ChildrenCount)

	name := []byte(h.Filename)
	if len(name) > filenameFieldLen-1 {
		name = name[:filenameFieldLen-1]
	}
	buf[25] = byte(len(name))
	copy(buf[26:26+filenameFieldLen-1], name)

	qOff := 26 + filenameFieldLen - 1
	qname := []byte(h.QueueName)
	if len(qname) > queueNameFieldLen-1 {
		qname = qname[:queueNameFieldLen-1]
	}
	buf[qOff] = byte(len(qname))
	copy(buf[qOff+1:qOff+1+queueNameFieldLen-1], qname)

	return buf
}

// decodeEntryHeader is encodeEntryHeader's inverse, used by tests to
// verify the shared-memory round trip: adding an entry followed by
// reading the shared-memory entry table must yield the same header bytes.
func decodeEntryHeader(buf []byte) engine.QueueEntryHeader {
	var h engine.QueueEntryHeader
	h.ID = binary.LittleEndian.Uint64(buf[0:8])
	h.ParentID = binary.LittleEndian.Uint64(buf[8:16])
	h.HasParent = buf[16] != 0
	h.InputLen = binary.LittleEndian.Uint32(buf[17:21])
	h.ChildrenCount = binary.LittleEndian.Uint32(buf[21:25])

	nameLen := int(buf[25])
	h.Filename = string(buf[26 : 26+nameLen])

	qOff := 26 + filenameFieldLen - 1
	qLen := int(buf[qOff])
	h.QueueName = string(buf[qOff+1 : qOff+1+qLen])

	return h
}

func entryHeader(e *Entry, queueName string) engine.QueueEntryHeader {
	h := engine.QueueEntryHeader{
		ID:            e.ID(),
		InputLen:      uint32(e.Input().Len()),
		ChildrenCount: uint32(len(e.Children())),
		Filename:      e.Filename,
		QueueName:     queueName,
	}
	if p := e.Parent(); p != nil {
		h.HasParent = true
		h.ParentID = p.ID()
	}
	return h
}
