package dashboard

import (
	"encoding/json"
	"fmt"
)

// Kind tags an action on the wire.
type Kind string

const (
	KindAddClient           Kind = "ADD_CLIENT"
	KindUpdateClient        Kind = "UPDATE_CLIENT"
	KindAddProject          Kind = "ADD_PROJECT"
	KindUpdateProject       Kind = "UPDATE_PROJECT"
	KindAddPayment          Kind = "ADD_PAYMENT"
	KindMarkProjectPaid     Kind = "MARK_PROJECT_PAID"
	KindUpdateProjectStatus Kind = "UPDATE_PROJECT_STATUS"
)

// Action is a described intent to change dashboard state. The set of
// implementations is closed to this package.
type Action interface {
	Kind() Kind
	payload() any
}

// AddClient appends a client.
type AddClient struct {
	Client Client
}

// UpdateClient replaces the client with the same id.
type UpdateClient struct {
	Client Client
}

// AddProject appends a project.
type AddProject struct {
	Project Project
}

// UpdateProject replaces the project with the same id.
type UpdateProject struct {
	Project Project
}

// AddPayment appends a payment and marks its project paid.
type AddPayment struct {
	Payment Payment
}

// MarkProjectPaid records a single payment for a project.
type MarkProjectPaid struct {
	ProjectID string  `json:"projectId"`
	Amount    float64 `json:"amount"`
}

// UpdateProjectStatus changes the delivery status of a project.
type UpdateProjectStatus struct {
	ProjectID string        `json:"projectId"`
	Status    ProjectStatus `json:"status"`
}

func (AddClient) Kind() Kind           { return KindAddClient }
func (UpdateClient) Kind() Kind        { return KindUpdateClient }
func (AddProject) Kind() Kind          { return KindAddProject }
func (UpdateProject) Kind() Kind       { return KindUpdateProject }
func (AddPayment) Kind() Kind          { return KindAddPayment }
func (MarkProjectPaid) Kind() Kind     { return KindMarkProjectPaid }
func (UpdateProjectStatus) Kind() Kind { return KindUpdateProjectStatus }

func (a AddClient) payload() any           { return a.Client }
func (a UpdateClient) payload() any        { return a.Client }
func (a AddProject) payload() any          { return a.Project }
func (a UpdateProject) payload() any       { return a.Project }
func (a AddPayment) payload() any          { return a.Payment }
func (a MarkProjectPaid) payload() any     { return a }
func (a UpdateProjectStatus) payload() any { return a }

// Envelope is the JSON form of an action: {"type": ..., "payload": ...}.
type Envelope struct {
	Type    Kind            `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// EncodeAction marshals an action into its envelope form.
func EncodeAction(action Action) ([]byte, error) {
	if action == nil {
		return nil, ErrUnknownAction
	}
	payload, err := json.Marshal(action.payload())
	if err != nil {
		return nil, fmt.Errorf("encoding %s payload: %w", action.Kind(), err)
	}
	return json.Marshal(Envelope{Type: action.Kind(), Payload: payload})
}

// DecodeAction parses an envelope into a concrete action.
func DecodeAction(data []byte) (Action, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return env.Action()
}

// Action converts the envelope into a concrete action.
func (e Envelope) Action() (Action, error) {
	switch e.Type {
	case KindAddClient:
		var c Client
		if err := decodePayload(e, &c); err != nil {
			return nil, err
		}
		return AddClient{Client: c}, nil
	case KindUpdateClient:
		var c Client
		if err := decodePayload(e, &c); err != nil {
			return nil, err
		}
		return UpdateClient{Client: c}, nil
	case KindAddProject:
		var p Project
		if err := decodePayload(e, &p); err != nil {
			return nil, err
		}
		return AddProject{Project: p}, nil
	case KindUpdateProject:
		var p Project
		if err := decodePayload(e, &p); err != nil {
			return nil, err
		}
		return UpdateProject{Project: p}, nil
	case KindAddPayment:
		var p Payment
		if err := decodePayload(e, &p); err != nil {
			return nil, err
		}
		return AddPayment{Payment: p}, nil
	case KindMarkProjectPaid:
		var a MarkProjectPaid
		if err := decodePayload(e, &a); err != nil {
			return nil, err
		}
		return a, nil
	case KindUpdateProjectStatus:
		var a UpdateProjectStatus
		if err := decodePayload(e, &a); err != nil {
			return nil, err
		}
		return a, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, e.Type)
	}
}

func decodePayload(e Envelope, out any) error {
	if len(e.Payload) == 0 {
		return fmt.Errorf("%w: %s payload missing", ErrInvalidInput, e.Type)
	}
	if err := json.Unmarshal(e.Payload, out); err != nil {
		return fmt.Errorf("%w: %s payload: %v", ErrInvalidInput, e.Type, err)
	}
	return nil
}
