package entity

import "errors"

// ErrListingDeleted transición inválida sobre una publicación eliminada.
var ErrListingDeleted = errors.New("la publicación fue eliminada")
