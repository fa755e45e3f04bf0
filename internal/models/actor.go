package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ActorKind string

const (
	ActorKindCustomer ActorKind = "customer"
	ActorKindMechanic ActorKind = "mechanic"
	ActorKindAdmin    ActorKind = "admin"
)

// ActorRef ties an account reference to the collection it lives in, so a
// customer id can never be recorded as a mechanic actor.
type ActorRef struct {
	Kind ActorKind          `json:"kind" bson:"kind"`
	ID   primitive.ObjectID `json:"id" bson:"id"`
}

func CustomerRef(id primitive.ObjectID) ActorRef {
	return ActorRef{Kind: ActorKindCustomer, ID: id}
}

func MechanicRef(id primitive.ObjectID) ActorRef {
	return ActorRef{Kind: ActorKindMechanic, ID: id}
}

func AdminRef(id primitive.ObjectID) ActorRef {
	return ActorRef{Kind: ActorKindAdmin, ID: id}
}

func (a ActorRef) IsZero() bool {
	return a.Kind == "" && a.ID.IsZero()
}

func IsValidActorKind(kind ActorKind) bool {
	switch kind {
	case ActorKindCustomer, ActorKindMechanic, ActorKindAdmin:
		return true
	}
	return false
}
