package lighting

import "go.trai.ch/zerr"

// ErrFrameAborted is returned when a contract violation stops shadow preparation mid-frame.
var ErrFrameAborted = zerr.New("shadow frame aborted")
