package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type PrincipalKind string

const (
	PrincipalUser   PrincipalKind = "user"
	PrincipalDriver PrincipalKind = "driver"
)

func (k PrincipalKind) Valid() bool {
	return k == PrincipalUser || k == PrincipalDriver
}

// Principal is an authenticated account as resolved from an access token.
type Principal struct {
	ID   primitive.ObjectID `json:"id"`
	Kind PrincipalKind      `json:"kind"`
}
