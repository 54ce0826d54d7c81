package pets

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")

	// ErrAuthRequired: no hay usuario autenticado en la operación.
	ErrAuthRequired = errors.New("authentication required")

	// ErrUpload: falló la subida de la foto. Se aborta antes de escribir el documento.
	ErrUpload = errors.New("photo upload failed")

	ErrRemoteWrite = errors.New("remote write failed")
	ErrRemoteRead  = errors.New("remote read failed")

	// ErrCache nunca llega al caller: se loguea y la operación sigue sin cache.
	ErrCache = errors.New("local cache unavailable")
)
