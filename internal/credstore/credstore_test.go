package credstore

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type StoreSuite struct {
	suite.Suite
	durable   *Memory
	ephemeral *Memory
	store     *Store
}

func (s *StoreSuite) SetupTest() {
	s.durable = NewMemory()
	s.ephemeral = NewMemory()
	s.store = New(s.durable, s.ephemeral)
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) TestReadPrefersDurable() {
	s.Require().NoError(s.ephemeral.Set(KeyUsername, "eph"))
	s.Require().NoError(s.durable.Set(KeyUsername, "dur"))

	v, ok := s.store.Read(KeyUsername)
	s.True(ok)
	s.Equal("dur", v)
}

func (s *StoreSuite) TestReadFallsBackToEphemeral() {
	s.Require().NoError(s.ephemeral.Set(KeyUsername, "eph"))

	v, ok := s.store.Read(KeyUsername)
	s.True(ok)
	s.Equal("eph", v)
}

func (s *StoreSuite) TestReadAbsent() {
	v, ok := s.store.Read(KeyAuthToken)
	s.False(ok)
	s.Equal("", v)
}

// A durable login must leave the ephemeral scope without a token, and vice
// versa, for any sequence of logins.
func (s *StoreSuite) TestTokenMutualExclusivity() {
	cred := Credential{Token: "QWxhZGRpbjpvcGVuc2VzYW1l", Username: "asha"}

	s.Require().NoError(s.store.SetCredential(Durable, cred))
	_, inDurable := s.durable.Get(KeyAuthToken)
	_, inEphemeral := s.ephemeral.Get(KeyAuthToken)
	s.True(inDurable)
	s.False(inEphemeral)

	s.Require().NoError(s.store.SetCredential(Ephemeral, cred))
	_, inDurable = s.durable.Get(KeyAuthToken)
	_, inEphemeral = s.ephemeral.Get(KeyAuthToken)
	s.False(inDurable)
	s.True(inEphemeral)
}

func (s *StoreSuite) TestHasCredential() {
	s.False(s.store.HasCredential())

	s.Require().NoError(s.store.SetCredential(Ephemeral, Credential{Token: "t", Username: "u"}))
	s.True(s.store.HasCredential())

	s.store.ClearAll()
	s.False(s.store.HasCredential())
}

func (s *StoreSuite) TestClearAllIdempotent() {
	s.store.ClearAll()
	s.store.ClearAll()
	s.False(s.store.HasCredential())

	s.Require().NoError(s.store.SetCredential(Durable, Credential{Token: "t", Username: "u"}))
	s.store.ClearAll()
	s.store.ClearAll()
	s.False(s.store.HasCredential())
	s.Equal(0, s.durable.Len())
	s.Equal(0, s.ephemeral.Len())
}

func (s *StoreSuite) TestWriteTargetsNamedScopeOnly() {
	s.Require().NoError(s.store.Write(Durable, KeyTenant, "acme"))

	_, inEphemeral := s.ephemeral.Get(KeyTenant)
	s.False(inEphemeral)

	v, ok := s.store.Tenant()
	s.True(ok)
	s.Equal("acme", v)
}

func (s *StoreSuite) TestTenantIgnoresEphemeralScope() {
	s.Require().NoError(s.ephemeral.Set(KeyTenant, "stray"))

	_, ok := s.store.Tenant()
	s.False(ok)
}
