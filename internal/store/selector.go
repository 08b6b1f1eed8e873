package store

import (
	"strings"

	"todo-dapp/client/internal/ledger"
)

type Kind int

const (
	KindRemote Kind = iota
	KindLocal
)

func (k Kind) String() string {
	if k == KindLocal {
		return "local"
	}
	return "remote"
}

// BackingStore tags the chosen adapter so the engine can branch on write
// strategy (synchronous local mutation vs. settle-delay reload) without
// re-inspecting the account on every call.
type BackingStore struct {
	Kind  Kind
	Store Store
}

// DemoAddress is the synthetic account identity used when no wallet provider
// is available.
const DemoAddress = "0xdemo123456789abcdef"

func DemoAccount() ledger.Account {
	return ledger.Account{Address: DemoAddress}
}

func IsDemoAccount(account ledger.Account) bool {
	return strings.Contains(strings.ToLower(account.Address), "demo")
}

// Choose picks the backing store for a session, once, at connect time. A
// demo identity routes to the local snapshot; everything else goes remote.
func Choose(account ledger.Account, remote, local Store) BackingStore {
	if IsDemoAccount(account) {
		return BackingStore{Kind: KindLocal, Store: local}
	}
	return BackingStore{Kind: KindRemote, Store: remote}
}
