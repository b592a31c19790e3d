// Package store 以 SQLite 保存使用者資料、收藏與已儲存的菜單
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"meal-planner/internal/core/nutrition"
	"meal-planner/internal/pkg/common"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// Profile 使用者身體資料
type Profile struct {
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	Age       int       `json:"age,omitempty"`
	Sex       string    `json:"sex,omitempty"`
	HeightCm  float64   `json:"height_cm,omitempty"`
	WeightKg  float64   `json:"weight_kg,omitempty"`
	Activity  string    `json:"activity,omitempty"`
	Goal      string    `json:"goal,omitempty"`
	BMR       int       `json:"bmr,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Nutrition 轉為熱量計算所需的資料
func (p Profile) Nutrition() *nutrition.Profile {
	return &nutrition.Profile{BMR: float64(p.BMR), Activity: p.Activity, Goal: p.Goal}
}

func (p Profile) hasBodyData() bool {
	return p.Sex != "" && p.WeightKg > 0 && p.HeightCm > 0 && p.Age > 0
}

// Favorite 收藏的食譜
type Favorite struct {
	Label     string    `json:"label"`
	URL       string    `json:"recipe_url"`
	Image     string    `json:"image,omitempty"`
	Calories  float64   `json:"calories,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SavedMenu 已儲存的菜單，內容保持呼叫端送來的 JSON
type SavedMenu struct {
	ID        string          `json:"id"`
	Username  string          `json:"username"`
	Menu      json.RawMessage `json:"menu"`
	CreatedAt time.Time       `json:"created_at"`
}

// SQLiteStore SQLite 實作
type SQLiteStore struct {
	db *sql.DB

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewSQLiteStore 開啟或建立資料庫
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{
		db:      db,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close 關閉資料庫
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping 檢查連線
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// newID 同一毫秒內也保持遞增，LatestMenu 依此排序
func (s *SQLiteStore) newID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS profiles (
		username   TEXT PRIMARY KEY,
		email      TEXT NOT NULL DEFAULT '',
		age        INTEGER NOT NULL DEFAULT 0,
		sex        TEXT NOT NULL DEFAULT '',
		height_cm  REAL NOT NULL DEFAULT 0,
		weight_kg  REAL NOT NULL DEFAULT 0,
		activity   TEXT NOT NULL DEFAULT '',
		goal       TEXT NOT NULL DEFAULT '',
		bmr        INTEGER NOT NULL DEFAULT 0,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS favorites (
		username   TEXT NOT NULL,
		url        TEXT NOT NULL,
		label      TEXT NOT NULL,
		image      TEXT NOT NULL DEFAULT '',
		calories   REAL NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		PRIMARY KEY (username, url)
	);
	CREATE INDEX IF NOT EXISTS idx_favorites_user ON favorites(username);

	CREATE TABLE IF NOT EXISTS menus (
		id         TEXT PRIMARY KEY,
		username   TEXT NOT NULL,
		menu       TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_menus_user ON menus(username, id DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

func normalizeUsername(username string) (string, error) {
	u := strings.TrimSpace(username)
	if u == "" {
		return "", common.NewValidationError("username is required")
	}
	return u, nil
}

// SaveProfile 新增或更新使用者資料；身體資料完整時重新計算 BMR
func (s *SQLiteStore) SaveProfile(ctx context.Context, p Profile) (*Profile, error) {
	username, err := normalizeUsername(p.Username)
	if err != nil {
		return nil, err
	}
	p.Username = username
	p.Sex = strings.ToLower(strings.TrimSpace(p.Sex))

	if p.hasBodyData() {
		bmr, err := nutrition.BMR(p.Sex, p.WeightKg, p.HeightCm, p.Age)
		if err != nil {
			return nil, err
		}
		p.BMR = bmr
	}
	p.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO profiles (username, email, age, sex, height_cm, weight_kg, activity, goal, bmr, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(username) DO UPDATE SET
		   email = excluded.email, age = excluded.age, sex = excluded.sex,
		   height_cm = excluded.height_cm, weight_kg = excluded.weight_kg,
		   activity = excluded.activity, goal = excluded.goal, bmr = excluded.bmr,
		   updated_at = excluded.updated_at`,
		p.Username, p.Email, p.Age, p.Sex, p.HeightCm, p.WeightKg, p.Activity, p.Goal, p.BMR,
		p.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	return &p, nil
}

// GetProfile 讀取使用者資料
func (s *SQLiteStore) GetProfile(ctx context.Context, username string) (*Profile, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return nil, err
	}

	var p Profile
	var updated string
	err = s.db.QueryRowContext(ctx,
		`SELECT username, email, age, sex, height_cm, weight_kg, activity, goal, bmr, updated_at
		 FROM profiles WHERE username = ?`, username).
		Scan(&p.Username, &p.Email, &p.Age, &p.Sex, &p.HeightCm, &p.WeightKg, &p.Activity, &p.Goal, &p.BMR, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrProfileMissing
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	p.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return &p, nil
}

// AddFavorite 收藏食譜；同一網址已存在時回傳 false
func (s *SQLiteStore) AddFavorite(ctx context.Context, username string, f Favorite) (bool, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(f.URL) == "" || strings.TrimSpace(f.Label) == "" {
		return false, common.NewValidationError("favorite needs label and recipe_url")
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO favorites (username, url, label, image, calories, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		username, f.URL, f.Label, f.Image, f.Calories, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return false, fmt.Errorf("insert favorite: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// RemoveFavorite 依網址移除收藏
func (s *SQLiteStore) RemoveFavorite(ctx context.Context, username, url string) (bool, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(url) == "" {
		return false, common.NewValidationError("recipe_url is required")
	}

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE username = ? AND url = ?`, username, url)
	if err != nil {
		return false, fmt.Errorf("delete favorite: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Favorites 依收藏順序列出
//
// 以 rowid 排序：RFC3339Nano 會省略尾端的 0，字串順序不等於時間順序。
func (s *SQLiteStore) Favorites(ctx context.Context, username string) ([]Favorite, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT url, label, image, calories, created_at FROM favorites
		 WHERE username = ? ORDER BY rowid`, username)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	favorites := []Favorite{}
	for rows.Next() {
		var f Favorite
		var created string
		if err := rows.Scan(&f.URL, &f.Label, &f.Image, &f.Calories, &created); err != nil {
			return nil, err
		}
		f.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		favorites = append(favorites, f)
	}
	return favorites, rows.Err()
}

// FavoriteLabels 收藏的食譜名稱，供推導搜尋關鍵字
func (s *SQLiteStore) FavoriteLabels(ctx context.Context, username string) ([]string, error) {
	favorites, err := s.Favorites(ctx, username)
	if err != nil {
		return nil, err
	}
	labels := make([]string, 0, len(favorites))
	for _, f := range favorites {
		labels = append(labels, f.Label)
	}
	return labels, nil
}

// SaveMenu 儲存菜單；內容必須是 JSON 物件
func (s *SQLiteStore) SaveMenu(ctx context.Context, username string, menu []byte) (*SavedMenu, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return nil, err
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(menu, &probe); err != nil {
		return nil, common.NewValidationError("menu must be a JSON object")
	}

	m := &SavedMenu{
		ID:        s.newID(),
		Username:  username,
		Menu:      json.RawMessage(append([]byte(nil), menu...)),
		CreatedAt: time.Now().UTC(),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO menus (id, username, menu, created_at) VALUES (?, ?, ?, ?)`,
		m.ID, m.Username, string(m.Menu), m.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("insert menu: %w", err)
	}
	return m, nil
}

// LatestMenu 取得最後儲存的菜單
func (s *SQLiteStore) LatestMenu(ctx context.Context, username string) (*SavedMenu, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return nil, err
	}

	var m SavedMenu
	var menu, created string
	err = s.db.QueryRowContext(ctx,
		`SELECT id, username, menu, created_at FROM menus
		 WHERE username = ? ORDER BY id DESC LIMIT 1`, username).
		Scan(&m.ID, &m.Username, &menu, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrMenuMissing
	}
	if err != nil {
		return nil, fmt.Errorf("get menu: %w", err)
	}
	m.Menu = json.RawMessage(menu)
	m.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	return &m, nil
}
