package cart

import "errors"

var ErrSnapshotNotFound = errors.New("cart snapshot not found")
