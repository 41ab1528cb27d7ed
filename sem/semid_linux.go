// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build linux && (amd64 || arm64)
// +build linux
// +build amd64 arm64

package sem

import "time"

// OperationTime returns the time of the last semop, or zero time if there was none.
func (ds *SemidDS) OperationTime() time.Time {
	if ds.Otime == 0 {
		return time.Time{}
	}
	return time.Unix(ds.Otime, 0)
}

// ChangeTime returns the time of the last change of the control block.
func (ds *SemidDS) ChangeTime() time.Time {
	return time.Unix(ds.Ctime, 0)
}
