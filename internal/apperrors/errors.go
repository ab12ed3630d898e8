package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller is authenticated but does not own the resource.
var ErrForbidden = errors.New("access denied")

// ErrRefreshTokenExpired indicates the stored refresh token is past its expiry time.
var ErrRefreshTokenExpired = errors.New("refresh token expired")

// ErrUpload indicates the external object-storage provider rejected the payload
// or was unreachable.
var ErrUpload = errors.New("upload to object storage failed")

// ErrInference indicates the external generative model call failed or its reply
// could not be parsed into a diagnosis.
var ErrInference = errors.New("inference failed")
