package ledger

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	ErrProviderUnavailable = errors.New("wallet provider unavailable")
	ErrConnectionFailed    = errors.New("wallet connection failed")
)

type Account struct {
	Address string `json:"address"`
}

// EntryFunctionPayload is the shape of a mutating contract call. All numeric
// arguments are passed as decimal strings.
type EntryFunctionPayload struct {
	Function      string   `json:"function"`
	TypeArguments []string `json:"type_arguments"`
	Arguments     []string `json:"arguments"`
}

// ViewRequest is a read-only query against the contract. The response is a
// list of raw values whose first element is the task array.
type ViewRequest struct {
	Function      string   `json:"function"`
	TypeArguments []string `json:"type_arguments"`
	Arguments     []string `json:"arguments"`
}

// TxnHandle identifies a submitted transaction. The engine treats submission
// as fire-and-forget; the hash is only logged.
type TxnHandle struct {
	Hash string `json:"hash"`
}

// Provider is the wallet/account collaborator boundary. The HTTP bridge
// implements it in production; tests stub it.
type Provider interface {
	Connect(ctx context.Context) (Account, error)
	Disconnect(ctx context.Context) error
	Account(ctx context.Context) (Account, error)
	SignAndSubmitTransaction(ctx context.Context, payload EntryFunctionPayload) (TxnHandle, error)
	View(ctx context.Context, req ViewRequest) ([]json.RawMessage, error)
}
