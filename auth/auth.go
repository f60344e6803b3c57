package auth

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// --- Models ---

type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Firstname    string `json:"firstname"`
	Lastname     string `json:"lastname"`
	Phone        string `json:"phone,omitempty"`
	Birthday     string `json:"birthday,omitempty"`
	Points       int64  `json:"points"`
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Phone     string `json:"phone"`
	Birthday  string `json:"birthday"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// ErrEmailTaken indicates a registration attempt with an already used email.
var ErrEmailTaken = errors.New("email already registered")

// --- Database ---

type DB struct {
	*sql.DB
}

func (db *DB) CreateUser(ctx context.Context, user *User, passwordHash string) (string, error) {
	var id string
	query := `INSERT INTO users (email, password, firstname, lastname, phone, birthday)
			  VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, '')::date) RETURNING id`
	err := db.QueryRowContext(ctx, query, user.Email, passwordHash, user.Firstname, user.Lastname, user.Phone, user.Birthday).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return "", ErrEmailTaken
		}
		return "", fmt.Errorf("could not create user: %w", err)
	}
	return id, nil
}

func (db *DB) GetUserByEmail(email string) (*User, error) {
	user, err := db.getUser(`SELECT id, email, password, firstname, lastname, phone, birthday, points
							 FROM users WHERE email = $1`, email)
	if err != nil {
		return nil, fmt.Errorf("could not get user by email: %w", err)
	}
	return user, nil
}

func (db *DB) GetUserByID(id string) (*User, error) {
	user, err := db.getUser(`SELECT id, email, password, firstname, lastname, phone, birthday, points
							 FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("could not get user by id: %w", err)
	}
	return user, nil
}

func (db *DB) getUser(query string, arg string) (*User, error) {
	user := &User{}
	var phone sql.NullString
	var birthday sql.NullTime
	err := db.QueryRow(query, arg).Scan(&user.ID, &user.Email, &user.PasswordHash,
		&user.Firstname, &user.Lastname, &phone, &birthday, &user.Points)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	user.Phone = phone.String
	if birthday.Valid {
		user.Birthday = birthday.Time.Format("2006-01-02")
	}
	return user, nil
}

// --- JWT ---

var jwtKey = []byte("dev_secret_key")

// SetSigningKey replaces the development signing key with the configured one.
// Call once during bootstrap, before the server starts.
func SetSigningKey(key string) {
	if key != "" {
		jwtKey = []byte(key)
	}
}

func GenerateJWT(userID, email string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

func ValidateJWT(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// --- Handlers ---

type Env struct {
	DB *sql.DB
}

func (env *Env) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := RegisterRequestFromContext(r)
	if !ok {
		RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	db := &DB{env.DB}
	user := &User{
		Email:     req.Email,
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Phone:     req.Phone,
		Birthday:  req.Birthday,
	}
	userID, err := db.CreateUser(r.Context(), user, string(passwordHash))
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			RespondWithError(w, http.StatusConflict, "Email already registered")
			return
		}
		RespondWithError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	JSON(w, http.StatusCreated, map[string]string{"user_id": userID})
}

func (env *Env) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	db := &DB{env.DB}
	user, err := db.GetUserByEmail(req.Email)
	if err != nil || user == nil {
		RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	tokenString, err := GenerateJWT(user.ID, user.Email)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	JSON(w, http.StatusOK, map[string]string{"access_token": tokenString})
}

// --- Middleware ---

func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			RespondWithError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			RespondWithError(w, http.StatusUnauthorized, "Invalid token format")
			return
		}

		claims, err := ValidateJWT(tokenString)
		if err != nil {
			RespondWithError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.Subject)))
	})
}
