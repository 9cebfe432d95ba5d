package domain

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrDuplicateEmail       = errors.New("email already exists")
	ErrDuplicateCertificate = errors.New("certificate id already exists")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrInvalidInput         = errors.New("invalid input")
	ErrRender               = errors.New("render certificate")
	ErrDelivery             = errors.New("deliver notification")
	ErrPersistence          = errors.New("persist record")
)
