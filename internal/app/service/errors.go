package service

import "errors"

// ErrForbidden: el gateway tradujo un 403 de la plataforma. Se loguea en
// warning y se abandona la acción — sin retry, el próximo evento re-evalúa.
var ErrForbidden = errors.New("forbidden")
