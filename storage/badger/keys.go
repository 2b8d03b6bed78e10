package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/sbercal/sbercal/core"
)

// Key prefixes for different data types
const (
	userRecordPrefix     = "usrrec"
	requestRecordPrefix  = "reqrec"
	requestManagerPrefix = "reqmgr"
	requestUserPrefix    = "requsr"
	requestIDSeq         = "reqrecseq"
)

// makeUserKey generates a key for a user record by login.
func makeUserKey(login string) []byte {
	return []byte(userRecordPrefix + ":" + login)
}

// makeRequestKey generates a key for a registration request by ID.
func makeRequestKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", requestRecordPrefix, id))
}

// makeRequestManagerKey generates a composite key for the manager index.
// Format: prefix:managerLogin:id
func makeRequestManagerKey(managerLogin string, id core.ID) []byte {
	prefix := requestManagerPrefix + ":" + managerLogin + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialRequestManagerKey generates a partial key for manager queries.
// Format: prefix:managerLogin:
func makePartialRequestManagerKey(managerLogin string) []byte {
	return []byte(requestManagerPrefix + ":" + managerLogin + ":")
}

// makeRequestUserKey generates a composite key for the submitter index.
// Format: prefix:userLogin:id
func makeRequestUserKey(userLogin string, id core.ID) []byte {
	prefix := requestUserPrefix + ":" + userLogin + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialRequestUserKey generates a partial key for submitter queries.
// Format: prefix:userLogin:
func makePartialRequestUserKey(userLogin string) []byte {
	return []byte(requestUserPrefix + ":" + userLogin + ":")
}
