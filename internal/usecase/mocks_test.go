package usecase

import (
	"context"
	"time"

	"github.com/rescobars/moviGo-api/internal/core/domain"
	"github.com/rescobars/moviGo-api/internal/core/port"
	"github.com/rescobars/moviGo-api/internal/repository"
)

type mockUserRepo struct {
	users map[int64]*domain.User
	err   error
}

func newMockUserRepo(users ...*domain.User) *mockUserRepo {
	repo := &mockUserRepo{users: make(map[int64]*domain.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (m *mockUserRepo) Create(_ context.Context, user *domain.User) error {
	if m.err != nil {
		return m.err
	}
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return repository.ErrConflict
		}
	}
	user.ID = int64(len(m.users) + 1)
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if user, ok := m.users[id]; ok {
		return user, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) GetByUUID(_ context.Context, uuid string) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, user := range m.users {
		if user.UUID == uuid {
			return user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) List(_ context.Context, _ port.UserFilter) ([]domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.User, 0, len(m.users))
	for _, user := range m.users {
		out = append(out, *user)
	}
	return out, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *domain.User) error {
	if m.err != nil {
		return m.err
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) UpdateStatus(_ context.Context, uuid string, status domain.UserStatus) error {
	for _, user := range m.users {
		if user.UUID == uuid {
			user.Status = status
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *mockUserRepo) Deactivate(_ context.Context, uuid string) error {
	for _, user := range m.users {
		if user.UUID == uuid {
			user.IsActive = false
			user.Status = domain.UserStatusInactive
			return nil
		}
	}
	return repository.ErrNotFound
}

type mockTokenRepo struct {
	tokens      map[string]*domain.AuthToken
	issueErr    error
	markedUsed  []string
	markedExpd  []string
	sweptCount  int64
	sweepCalled bool
}

func newMockTokenRepo(tokens ...*domain.AuthToken) *mockTokenRepo {
	repo := &mockTokenRepo{tokens: make(map[string]*domain.AuthToken)}
	for _, token := range tokens {
		repo.tokens[token.Token] = token
	}
	return repo
}

func (m *mockTokenRepo) Issue(_ context.Context, token *domain.AuthToken) error {
	if m.issueErr != nil {
		return m.issueErr
	}
	token.Status = domain.TokenStatusPending
	token.IsActive = true
	token.ID = int64(len(m.tokens) + 1)
	m.tokens[token.Token] = token
	return nil
}

func (m *mockTokenRepo) FindByToken(_ context.Context, raw string) (*domain.AuthToken, error) {
	if token, ok := m.tokens[raw]; ok && token.IsActive {
		return token, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockTokenRepo) FindByVerificationCode(_ context.Context, code string) (*domain.AuthToken, error) {
	for _, token := range m.tokens {
		if token.IsActive && token.VerificationCode != nil && *token.VerificationCode == code {
			return token, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockTokenRepo) MarkUsed(_ context.Context, raw string) error {
	token, ok := m.tokens[raw]
	if !ok || (token.Status != domain.TokenStatusPending && token.Status != domain.TokenStatusUsed) {
		return repository.ErrNotFound
	}
	token.Status = domain.TokenStatusUsed
	token.IsActive = false
	m.markedUsed = append(m.markedUsed, raw)
	return nil
}

func (m *mockTokenRepo) MarkExpired(_ context.Context, raw string) error {
	token, ok := m.tokens[raw]
	if !ok || (token.Status != domain.TokenStatusPending && token.Status != domain.TokenStatusExpired) {
		return repository.ErrNotFound
	}
	token.Status = domain.TokenStatusExpired
	token.IsActive = false
	m.markedExpd = append(m.markedExpd, raw)
	return nil
}

func (m *mockTokenRepo) SweepExpired(_ context.Context, now time.Time) (int64, error) {
	m.sweepCalled = true
	var count int64
	for _, token := range m.tokens {
		if token.Status == domain.TokenStatusPending && !now.Before(token.ExpiresAt) {
			token.Status = domain.TokenStatusExpired
			token.IsActive = false
			count++
		}
	}
	m.sweptCount = count
	return count, nil
}

type mockSessionRepo struct {
	sessions  map[string]*domain.UserSession
	createErr error
	nextID    int64
}

func newMockSessionRepo(sessions ...*domain.UserSession) *mockSessionRepo {
	repo := &mockSessionRepo{sessions: make(map[string]*domain.UserSession)}
	for _, session := range sessions {
		repo.sessions[session.UUID] = session
	}
	return repo
}

func (m *mockSessionRepo) Create(_ context.Context, session *domain.UserSession) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	session.ID = m.nextID
	session.CreatedAt = session.LastActivity
	session.UpdatedAt = session.LastActivity
	m.sessions[session.UUID] = session
	return nil
}

func (m *mockSessionRepo) FindByUUID(_ context.Context, uuid string) (*domain.UserSession, error) {
	if session, ok := m.sessions[uuid]; ok {
		return session, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockSessionRepo) FindByRefreshTokenHash(_ context.Context, hash string) (*domain.UserSession, error) {
	for _, session := range m.sessions {
		if session.RefreshTokenHash == hash {
			return session, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockSessionRepo) ListByUser(_ context.Context, userID int64) ([]domain.UserSession, error) {
	var out []domain.UserSession
	for _, session := range m.sessions {
		if session.UserID == userID {
			out = append(out, *session)
		}
	}
	return out, nil
}

func (m *mockSessionRepo) TouchActivity(_ context.Context, uuid string, at time.Time) error {
	session, ok := m.sessions[uuid]
	if !ok {
		return repository.ErrNotFound
	}
	session.LastActivity = at
	return nil
}

func (m *mockSessionRepo) UpdateStatus(_ context.Context, uuid string, status domain.SessionStatus) error {
	session, ok := m.sessions[uuid]
	if !ok {
		return repository.ErrNotFound
	}
	session.Status = status
	if status != domain.SessionStatusActive {
		session.IsActive = false
	}
	return nil
}

func (m *mockSessionRepo) RevokeAllForUser(_ context.Context, userID int64) (int64, error) {
	var count int64
	for _, session := range m.sessions {
		if session.UserID == userID && session.Status == domain.SessionStatusActive {
			session.Status = domain.SessionStatusRevoked
			session.IsActive = false
			count++
		}
	}
	return count, nil
}

func (m *mockSessionRepo) SweepExpired(_ context.Context, now time.Time) (int64, error) {
	var count int64
	for _, session := range m.sessions {
		if session.Status == domain.SessionStatusActive && !now.Before(session.ExpiresAt) {
			session.Status = domain.SessionStatusExpired
			session.IsActive = false
			count++
		}
	}
	return count, nil
}

type mockMemberRepo struct {
	memberships map[int64][]port.Membership
	created     []*domain.OrganizationMember
	roles       []*domain.MemberRole
	err         error
}

func newMockMemberRepo() *mockMemberRepo {
	return &mockMemberRepo{memberships: make(map[int64][]port.Membership)}
}

func (m *mockMemberRepo) Create(_ context.Context, member *domain.OrganizationMember) error {
	if m.err != nil {
		return m.err
	}
	member.ID = int64(len(m.created) + 1)
	m.created = append(m.created, member)
	return nil
}

func (m *mockMemberRepo) GetByUUID(_ context.Context, uuid string) (*domain.OrganizationMember, error) {
	for _, member := range m.created {
		if member.UUID == uuid {
			return member, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockMemberRepo) ListByOrganization(_ context.Context, _ int64) ([]domain.OrganizationMember, error) {
	return nil, nil
}

func (m *mockMemberRepo) ListMembershipsForUser(_ context.Context, userID int64) ([]port.Membership, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.memberships[userID], nil
}

func (m *mockMemberRepo) UpdateStatus(_ context.Context, _ string, _ domain.MemberStatus) error {
	return nil
}

func (m *mockMemberRepo) Remove(_ context.Context, _ string) error {
	return nil
}

func (m *mockMemberRepo) AddRole(_ context.Context, role *domain.MemberRole) error {
	for _, existing := range m.roles {
		if existing.MemberID == role.MemberID && existing.Name == role.Name {
			return repository.ErrConflict
		}
	}
	role.ID = int64(len(m.roles) + 1)
	m.roles = append(m.roles, role)
	return nil
}

func (m *mockMemberRepo) RemoveRole(_ context.Context, _ string) error {
	return nil
}

type mockOrgRepo struct {
	orgs        map[string]*domain.Organization
	memberCount int64
	err         error
}

func newMockOrgRepo(orgs ...*domain.Organization) *mockOrgRepo {
	repo := &mockOrgRepo{orgs: make(map[string]*domain.Organization)}
	for _, org := range orgs {
		repo.orgs[org.UUID] = org
	}
	return repo
}

func (m *mockOrgRepo) Create(_ context.Context, org *domain.Organization) error {
	if m.err != nil {
		return m.err
	}
	for _, existing := range m.orgs {
		if existing.Slug == org.Slug {
			return repository.ErrConflict
		}
	}
	org.ID = int64(len(m.orgs) + 1)
	m.orgs[org.UUID] = org
	return nil
}

func (m *mockOrgRepo) GetByID(_ context.Context, id int64) (*domain.Organization, error) {
	for _, org := range m.orgs {
		if org.ID == id {
			return org, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockOrgRepo) GetByUUID(_ context.Context, uuid string) (*domain.Organization, error) {
	if org, ok := m.orgs[uuid]; ok {
		return org, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockOrgRepo) GetBySlug(_ context.Context, slug string) (*domain.Organization, error) {
	for _, org := range m.orgs {
		if org.Slug == slug {
			return org, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockOrgRepo) List(_ context.Context, _ port.OrganizationFilter) ([]domain.Organization, error) {
	out := make([]domain.Organization, 0, len(m.orgs))
	for _, org := range m.orgs {
		out = append(out, *org)
	}
	return out, nil
}

func (m *mockOrgRepo) Update(_ context.Context, org *domain.Organization) error {
	m.orgs[org.UUID] = org
	return nil
}

func (m *mockOrgRepo) Deactivate(_ context.Context, uuid string) error {
	org, ok := m.orgs[uuid]
	if !ok {
		return repository.ErrNotFound
	}
	org.IsActive = false
	org.Status = domain.OrganizationStatusInactive
	return nil
}

func (m *mockOrgRepo) CountActiveMembers(_ context.Context, _ int64) (int64, error) {
	return m.memberCount, nil
}

type mockOrderRepo struct {
	orders map[string]*domain.Order
	count  int64
	err    error
}

func newMockOrderRepo(orders ...*domain.Order) *mockOrderRepo {
	repo := &mockOrderRepo{orders: make(map[string]*domain.Order)}
	for _, order := range orders {
		repo.orders[order.UUID] = order
	}
	return repo
}

func (m *mockOrderRepo) Create(_ context.Context, order *domain.Order) error {
	if m.err != nil {
		return m.err
	}
	order.ID = int64(len(m.orders) + 1)
	m.orders[order.UUID] = order
	return nil
}

func (m *mockOrderRepo) CreateBatch(ctx context.Context, orders []*domain.Order) error {
	for _, order := range orders {
		if err := m.Create(ctx, order); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockOrderRepo) GetByUUID(_ context.Context, uuid string) (*domain.Order, error) {
	if order, ok := m.orders[uuid]; ok {
		return order, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockOrderRepo) ListByOrganization(_ context.Context, orgID int64, _ port.OrderFilter) ([]domain.Order, error) {
	var out []domain.Order
	for _, order := range m.orders {
		if order.OrganizationID == orgID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) ListPending(_ context.Context, orgID int64) ([]domain.Order, error) {
	var out []domain.Order
	for _, order := range m.orders {
		if order.OrganizationID == orgID && order.Status == domain.OrderStatusPending {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) CountByOrganization(_ context.Context, _ int64) (int64, error) {
	return m.count, nil
}

func (m *mockOrderRepo) Update(_ context.Context, order *domain.Order) error {
	if _, ok := m.orders[order.UUID]; !ok {
		return repository.ErrNotFound
	}
	m.orders[order.UUID] = order
	return nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, uuid string, status domain.OrderStatus) error {
	order, ok := m.orders[uuid]
	if !ok {
		return repository.ErrNotFound
	}
	order.Status = status
	return nil
}

func (m *mockOrderRepo) Delete(_ context.Context, uuid string) error {
	if _, ok := m.orders[uuid]; !ok {
		return repository.ErrNotFound
	}
	delete(m.orders, uuid)
	return nil
}

type stubNotifier struct {
	loginCalls  int
	inviteCalls int
	lastEmail   string
	lastCode    string
	deliver     bool
}

func newStubNotifier() *stubNotifier {
	return &stubNotifier{deliver: true}
}

func (n *stubNotifier) SendLoginCode(_ context.Context, email, _, code string) bool {
	n.loginCalls++
	n.lastEmail = email
	n.lastCode = code
	return n.deliver
}

func (n *stubNotifier) SendVerificationEmail(_ context.Context, email, _ string) bool {
	n.lastEmail = email
	return n.deliver
}

func (n *stubNotifier) SendInvitation(_ context.Context, email, _, _ string, _ []string, _ string) bool {
	n.inviteCalls++
	n.lastEmail = email
	return n.deliver
}

type stubEvents struct {
	loginRequested int
	created        int
	revoked        int
}

func (e *stubEvents) PublishLoginRequested(_ context.Context, _ domain.LoginRequestedEvent) error {
	e.loginRequested++
	return nil
}

func (e *stubEvents) PublishSessionCreated(_ context.Context, _ domain.SessionCreatedEvent) error {
	e.created++
	return nil
}

func (e *stubEvents) PublishSessionRevoked(_ context.Context, _ domain.SessionRevokedEvent) error {
	e.revoked++
	return nil
}

var (
	_ port.UserRepository         = (*mockUserRepo)(nil)
	_ port.AuthTokenRepository    = (*mockTokenRepo)(nil)
	_ port.SessionRepository      = (*mockSessionRepo)(nil)
	_ port.MemberRepository       = (*mockMemberRepo)(nil)
	_ port.OrganizationRepository = (*mockOrgRepo)(nil)
	_ port.OrderRepository        = (*mockOrderRepo)(nil)
	_ port.Notifier               = (*stubNotifier)(nil)
	_ port.EventPublisher         = (*stubEvents)(nil)
)
