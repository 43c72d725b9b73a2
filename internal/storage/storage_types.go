package storage

import "github.com/axeeeh/tempmail/internal/tempmail"

type Storage struct {
	basePath    string
	messagePath string
	key         []byte
}

// StoredSession is the persisted mailbox/provider pairing. Password and
// token are only set for providers that carry login state; the file is
// encrypted at rest because of them.
type StoredSession struct {
	Provider  tempmail.ProviderID `json:"provider"`
	Address   string              `json:"address"`
	Password  string              `json:"password,omitempty"`
	Token     string              `json:"token,omitempty"`
	CreatedAt int64               `json:"created_at"`
}
