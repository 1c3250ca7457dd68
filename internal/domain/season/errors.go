package season

import "errors"

var ErrSeasonNotFound = errors.New("season not found")
