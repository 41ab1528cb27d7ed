// Copyright 2016 Aleksandr Demakin. All rights reserved.

package common

import (
	"os"

	"github.com/nxgtw/go-sysvipc"
	"github.com/pkg/errors"
)

// IpcFlags converts os open flags and permissions into flags for msgget, semget and shmget.
//	os.O_CREATE          -> IpcCreat
//	os.O_CREATE|O_EXCL   -> IpcCreat|IpcExcl
// Access mode flags are ignored, as System V objects are opened for whatever access
// the permissions allow. Any other flag is an error.
func IpcFlags(flag int, perm os.FileMode) (int, error) {
	const accessMask = os.O_RDONLY | os.O_WRONLY | os.O_RDWR
	if perm&^ipc.PermMask != 0 {
		return 0, errors.Errorf("invalid permissions %v", perm)
	}
	result := int(perm)
	if flag&os.O_CREATE != 0 {
		result |= ipc.IpcCreat
	}
	if flag&os.O_EXCL != 0 {
		if flag&os.O_CREATE == 0 {
			return 0, errors.New("O_EXCL requires O_CREATE")
		}
		result |= ipc.IpcExcl
	}
	if rest := flag &^ (os.O_CREATE | os.O_EXCL | accessMask); rest != 0 {
		return 0, errors.Errorf("unsupported open flags %#x", rest)
	}
	return result, nil
}

// OpenOrCreate acquires an object with IpcCreat|IpcExcl first, and, if it exists,
// opens it without creation flags. This tells the caller whether the object was created.
// It retries, if the object disappears between the attempts.
func OpenOrCreate(creator func(create bool) error) (bool, error) {
	const attempts = 16
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if err = creator(true); !ipc.IsExist(err) {
			return err == nil, err
		}
		if err = creator(false); !ipc.IsNotExist(err) {
			return false, err
		}
	}
	return false, err
}
