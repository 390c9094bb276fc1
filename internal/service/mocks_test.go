package service

import (
	"context"
	"sort"
	"time"

	"github.com/uma-movies/uma-server/internal/domain"
	"github.com/uma-movies/uma-server/internal/repository"
)

// =============================================================================
// Mock repositories
// =============================================================================

// MockActorRepository is an in-memory implementation of
// repository.ActorRepository.
type MockActorRepository struct {
	actors    map[string]*domain.Actor
	nextID    int64
	createErr error
	getErr    error
	updateErr error
	deleteErr error
}

func NewMockActorRepository() *MockActorRepository {
	return &MockActorRepository{
		actors: make(map[string]*domain.Actor),
		nextID: 1,
	}
}

func (m *MockActorRepository) add(actor *domain.Actor) *domain.Actor {
	if actor.ID() == 0 {
		actor.SetID(m.nextID)
		m.nextID++
	}
	m.actors[actor.Name()] = actor
	return actor
}

func (m *MockActorRepository) Create(ctx context.Context, actor *domain.Actor) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, exists := m.actors[actor.Name()]; exists {
		return repository.ErrDuplicate
	}
	m.add(actor)
	return nil
}

func (m *MockActorRepository) GetByID(ctx context.Context, id int64) (*domain.Actor, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, a := range m.actors {
		if a.ID() == id {
			return a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockActorRepository) GetByName(ctx context.Context, name string) (*domain.Actor, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if a, exists := m.actors[name]; exists {
		return a, nil
	}
	return nil, repository.ErrNotFound
}

func (m *MockActorRepository) Update(ctx context.Context, actor *domain.Actor) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	for name, a := range m.actors {
		if a.ID() == actor.ID() {
			delete(m.actors, name)
			m.actors[actor.Name()] = actor
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *MockActorRepository) Delete(ctx context.Context, name string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, exists := m.actors[name]; !exists {
		return repository.ErrNotFound
	}
	delete(m.actors, name)
	return nil
}

func (m *MockActorRepository) List(ctx context.Context, opts repository.ListOptions) (*repository.ListResult[domain.Actor], error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	items := make([]*domain.Actor, 0, len(m.actors))
	for _, a := range m.actors {
		items = append(items, a)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID() < items[j].ID() })
	return &repository.ListResult[domain.Actor]{
		Items:  paginate(items, opts),
		Total:  int64(len(items)),
		Offset: opts.Offset,
		Limit:  opts.Limit,
	}, nil
}

func (m *MockActorRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	_, exists := m.actors[name]
	return exists, nil
}

// MockGenreRepository is an in-memory implementation of
// repository.GenreRepository.
type MockGenreRepository struct {
	genres    map[string]*domain.Genre
	nextID    int64
	createErr error
	getErr    error
	updateErr error
	deleteErr error
}

func NewMockGenreRepository() *MockGenreRepository {
	return &MockGenreRepository{
		genres: make(map[string]*domain.Genre),
		nextID: 1,
	}
}

func (m *MockGenreRepository) add(genre *domain.Genre) *domain.Genre {
	if genre.ID() == 0 {
		genre.SetID(m.nextID)
		m.nextID++
	}
	m.genres[genre.Name()] = genre
	return genre
}

func (m *MockGenreRepository) Create(ctx context.Context, genre *domain.Genre) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, exists := m.genres[genre.Name()]; exists {
		return repository.ErrDuplicate
	}
	m.add(genre)
	return nil
}

func (m *MockGenreRepository) GetByID(ctx context.Context, id int64) (*domain.Genre, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, g := range m.genres {
		if g.ID() == id {
			return g, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockGenreRepository) GetByName(ctx context.Context, name string) (*domain.Genre, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if g, exists := m.genres[name]; exists {
		return g, nil
	}
	return nil, repository.ErrNotFound
}

func (m *MockGenreRepository) Update(ctx context.Context, genre *domain.Genre) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	for name, g := range m.genres {
		if g.ID() == genre.ID() {
			delete(m.genres, name)
			m.genres[genre.Name()] = genre
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *MockGenreRepository) Delete(ctx context.Context, name string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, exists := m.genres[name]; !exists {
		return repository.ErrNotFound
	}
	delete(m.genres, name)
	return nil
}

func (m *MockGenreRepository) List(ctx context.Context, opts repository.ListOptions) (*repository.ListResult[domain.Genre], error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	items := make([]*domain.Genre, 0, len(m.genres))
	for _, g := range m.genres {
		items = append(items, g)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID() < items[j].ID() })
	return &repository.ListResult[domain.Genre]{
		Items:  paginate(items, opts),
		Total:  int64(len(items)),
		Offset: opts.Offset,
		Limit:  opts.Limit,
	}, nil
}

func (m *MockGenreRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	_, exists := m.genres[name]
	return exists, nil
}

// MockMovieRepository is an in-memory implementation of
// repository.MovieRepository.
type MockMovieRepository struct {
	movies    map[string]*domain.Movie
	nextID    int64
	createErr error
	getErr    error
	updateErr error
	deleteErr error
}

func NewMockMovieRepository() *MockMovieRepository {
	return &MockMovieRepository{
		movies: make(map[string]*domain.Movie),
		nextID: 1,
	}
}

func (m *MockMovieRepository) add(movie *domain.Movie) *domain.Movie {
	if movie.ID() == 0 {
		movie.SetID(m.nextID)
		m.nextID++
	}
	m.movies[movie.Name()] = movie
	return movie
}

func (m *MockMovieRepository) Create(ctx context.Context, movie *domain.Movie) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, exists := m.movies[movie.Name()]; exists {
		return repository.ErrDuplicate
	}
	m.add(movie)
	return nil
}

func (m *MockMovieRepository) GetByID(ctx context.Context, id int64) (*domain.Movie, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, mv := range m.movies {
		if mv.ID() == id {
			return mv, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockMovieRepository) GetByName(ctx context.Context, name string) (*domain.Movie, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if mv, exists := m.movies[name]; exists {
		return mv, nil
	}
	return nil, repository.ErrNotFound
}

func (m *MockMovieRepository) Update(ctx context.Context, movie *domain.Movie) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	for name, mv := range m.movies {
		if mv.ID() == movie.ID() {
			delete(m.movies, name)
			m.movies[movie.Name()] = movie
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *MockMovieRepository) Delete(ctx context.Context, name string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, exists := m.movies[name]; !exists {
		return repository.ErrNotFound
	}
	delete(m.movies, name)
	return nil
}

func (m *MockMovieRepository) List(ctx context.Context, opts repository.ListOptions) (*repository.ListResult[domain.Movie], error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	items := make([]*domain.Movie, 0, len(m.movies))
	for _, mv := range m.movies {
		items = append(items, mv)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID() < items[j].ID() })
	return &repository.ListResult[domain.Movie]{
		Items:  paginate(items, opts),
		Total:  int64(len(items)),
		Offset: opts.Offset,
		Limit:  opts.Limit,
	}, nil
}

func (m *MockMovieRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	_, exists := m.movies[name]
	return exists, nil
}

// MockUserRepository is an in-memory implementation of
// repository.UserRepository.
type MockUserRepository struct {
	users     map[string]*domain.User
	nextID    int64
	createErr error
	getErr    error
	updateErr error
	deleteErr error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:  make(map[string]*domain.User),
		nextID: 1,
	}
}

func (m *MockUserRepository) add(user *domain.User) *domain.User {
	if user.ID() == 0 {
		user.SetID(m.nextID)
		m.nextID++
	}
	m.users[user.Username()] = user
	return user
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, exists := m.users[user.Username()]; exists {
		return repository.ErrDuplicate
	}
	m.add(user)
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, u := range m.users {
		if u.ID() == id {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if u, exists := m.users[username]; exists {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) GetByAPIToken(ctx context.Context, token string) (*domain.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, u := range m.users {
		if u.APIToken() != "" && u.APIToken() == token {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	for username, u := range m.users {
		if u.ID() == user.ID() {
			delete(m.users, username)
			m.users[user.Username()] = user
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *MockUserRepository) Delete(ctx context.Context, username string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, exists := m.users[username]; !exists {
		return repository.ErrNotFound
	}
	delete(m.users, username)
	return nil
}

func (m *MockUserRepository) List(ctx context.Context, opts repository.ListOptions) (*repository.ListResult[domain.User], error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	items := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		items = append(items, u)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID() < items[j].ID() })
	return &repository.ListResult[domain.User]{
		Items:  paginate(items, opts),
		Total:  int64(len(items)),
		Offset: opts.Offset,
		Limit:  opts.Limit,
	}, nil
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, exists := m.users[username]
	return exists, nil
}

// paginate applies offset/limit the way the real backends do.
func paginate[T any](items []*T, opts repository.ListOptions) []*T {
	if opts.Offset >= len(items) {
		return nil
	}
	items = items[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(items) {
		items = items[:opts.Limit]
	}
	return items
}

// =============================================================================
// Mock cache and hasher
// =============================================================================

// MockCache is an in-memory implementation of repository.Cache that records
// its traffic.
type MockCache struct {
	entries map[string][]byte
	gets    int
	hits    int
}

func NewMockCache() *MockCache {
	return &MockCache{entries: make(map[string][]byte)}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.gets++
	if value, exists := m.entries[key]; exists {
		m.hits++
		return value, nil
	}
	return nil, repository.ErrCacheMiss
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.entries[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	delete(m.entries, key)
	return nil
}

func (m *MockCache) Exists(ctx context.Context, key string) (bool, error) {
	_, exists := m.entries[key]
	return exists, nil
}

func (m *MockCache) Close() error {
	return nil
}

// plainHasher is a transparent hasher for tests. Verification is plain
// string comparison against the recorded plaintext.
type plainHasher struct{}

func (plainHasher) Hash(plaintext string) (string, error) {
	return "hashed:" + plaintext, nil
}

func (plainHasher) Verify(digest, plaintext string) bool {
	return digest == "hashed:"+plaintext
}
