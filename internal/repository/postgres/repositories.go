package postgres

import "github.com/jackc/pgx/v5/pgxpool"

// Repositories groups all PostgreSQL repositories built over one pool.
type Repositories struct {
	Users         *UserRepository
	AuthTokens    *AuthTokenRepository
	Sessions      *SessionRepository
	Organizations *OrganizationRepository
	Members       *MemberRepository
	Orders        *OrderRepository
	Tx            *TxRunner
}

// NewRepositories wires every repository to the shared pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(pool),
		AuthTokens:    NewAuthTokenRepository(pool),
		Sessions:      NewSessionRepository(pool),
		Organizations: NewOrganizationRepository(pool),
		Members:       NewMemberRepository(pool),
		Orders:        NewOrderRepository(pool),
		Tx:            NewTxRunner(pool),
	}
}
