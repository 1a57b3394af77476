package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/novahogar2025-gif/Backend-final/internal/auth"
	"github.com/novahogar2025-gif/Backend-final/internal/models"
)

func TestRegister(t *testing.T) {
	testDB := setupHandlerDB(t)
	r := newRouter(testDB, &stubMailer{})

	t.Run("creates a customer account", func(t *testing.T) {
		w := doJSON(r, "POST", "/api/auth/register", "", map[string]string{
			"name":     "maria",
			"email":    "maria@example.com",
			"password": "secreto123",
			"country":  "México",
		})
		assert.Equal(t, http.StatusCreated, w.Code)

		var user models.User
		assert.NoError(t, testDB.Where("email = ?", "maria@example.com").First(&user).Error)
		assert.Equal(t, models.RoleCustomer, user.Role)
		assert.NotEqual(t, "secreto123", user.PasswordHash)
	})

	t.Run("unknown roles are stored as customer", func(t *testing.T) {
		w := doJSON(r, "POST", "/api/auth/register", "", map[string]string{
			"name":     "listillo",
			"email":    "listillo@example.com",
			"password": "secreto123",
			"country":  "México",
			"role":     "superuser",
		})
		assert.Equal(t, http.StatusCreated, w.Code)

		var user models.User
		assert.NoError(t, testDB.Where("name = ?", "listillo").First(&user).Error)
		assert.Equal(t, models.RoleCustomer, user.Role)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		w := doJSON(r, "POST", "/api/auth/register", "", map[string]string{
			"name":     "otra",
			"email":    "maria@example.com",
			"password": "secreto123",
			"country":  "México",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("rejects short password", func(t *testing.T) {
		w := doJSON(r, "POST", "/api/auth/register", "", map[string]string{
			"name":     "corta",
			"email":    "corta@example.com",
			"password": "123",
			"country":  "México",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLogin(t *testing.T) {
	testDB := setupHandlerDB(t)
	r := newRouter(testDB, &stubMailer{})

	hash, err := bcrypt.GenerateFromPassword([]byte("secreto123"), bcrypt.MinCost)
	assert.NoError(t, err)
	user := models.User{
		Name: "carlos", Email: "carlos@example.com",
		PasswordHash: string(hash), Role: models.RoleCustomer, Country: "México",
	}
	assert.NoError(t, testDB.Create(&user).Error)

	t.Run("valid credentials return a token", func(t *testing.T) {
		w := doJSON(r, "POST", "/api/auth/login", "", map[string]string{
			"name": "carlos", "password": "secreto123",
		})
		assert.Equal(t, http.StatusOK, w.Code)

		body := decodeBody(t, w)
		assert.NotEmpty(t, body["token"])
		assert.Equal(t, "cliente", body["role"])
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		w := doJSON(r, "POST", "/api/auth/login", "", map[string]string{
			"name": "carlos", "password": "equivocada",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown user is unauthorized", func(t *testing.T) {
		w := doJSON(r, "POST", "/api/auth/login", "", map[string]string{
			"name": "fantasma", "password": "loquesea",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestLoginLockout(t *testing.T) {
	testDB := setupHandlerDB(t)
	r := newRouter(testDB, &stubMailer{})

	hash, err := bcrypt.GenerateFromPassword([]byte("secreto123"), bcrypt.MinCost)
	assert.NoError(t, err)
	user := models.User{
		Name: "bloqueado", Email: "bloqueado@example.com",
		PasswordHash: string(hash), Role: models.RoleCustomer, Country: "México",
	}
	assert.NoError(t, testDB.Create(&user).Error)

	for i := 0; i < auth.MaxLoginAttempts; i++ {
		w := doJSON(r, "POST", "/api/auth/login", "", map[string]string{
			"name": "bloqueado", "password": "equivocada",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	var locked models.User
	assert.NoError(t, testDB.First(&locked, user.ID).Error)
	assert.NotNil(t, locked.LockedUntil)
	assert.True(t, locked.LockedUntil.After(time.Now()))

	t.Run("even the right password is refused while locked", func(t *testing.T) {
		w := doJSON(r, "POST", "/api/auth/login", "", map[string]string{
			"name": "bloqueado", "password": "secreto123",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("an expired lock lets the user back in", func(t *testing.T) {
		past := time.Now().Add(-time.Minute)
		assert.NoError(t, testDB.Model(&locked).Update("locked_until", past).Error)

		w := doJSON(r, "POST", "/api/auth/login", "", map[string]string{
			"name": "bloqueado", "password": "secreto123",
		})
		assert.Equal(t, http.StatusOK, w.Code)

		var fresh models.User
		assert.NoError(t, testDB.First(&fresh, user.ID).Error)
		assert.Equal(t, 0, fresh.FailedAttempts)
		assert.Nil(t, fresh.LockedUntil)
	})
}

func TestPasswordResetFlow(t *testing.T) {
	testDB := setupHandlerDB(t)
	mailer := &stubMailer{}
	r := newRouter(testDB, mailer)

	hash, err := bcrypt.GenerateFromPassword([]byte("vieja1234"), bcrypt.MinCost)
	assert.NoError(t, err)
	user := models.User{
		Name: "olvidadiza", Email: "olvidadiza@example.com",
		PasswordHash: string(hash), Role: models.RoleCustomer, Country: "México",
	}
	assert.NoError(t, testDB.Create(&user).Error)

	t.Run("forgot-password stores a token and mails it", func(t *testing.T) {
		w := doJSON(r, "POST", "/api/auth/forgot-password", "", map[string]string{
			"email": "olvidadiza@example.com",
		})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, mailer.resets)

		var reset models.PasswordReset
		assert.NoError(t, testDB.Where("user_id = ?", user.ID).First(&reset).Error)
		assert.Len(t, reset.Token, 64)
		assert.True(t, reset.ExpiresAt.After(time.Now()))
	})

	t.Run("does not reveal unknown accounts", func(t *testing.T) {
		w := doJSON(r, "POST", "/api/auth/forgot-password", "", map[string]string{
			"email": "nadie@example.com",
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("reset-password changes the credential and burns the token", func(t *testing.T) {
		var reset models.PasswordReset
		assert.NoError(t, testDB.Where("user_id = ?", user.ID).First(&reset).Error)

		w := doJSON(r, "POST", "/api/auth/reset-password", "", map[string]string{
			"token":        reset.Token,
			"new_password": "nueva1234",
		})
		assert.Equal(t, http.StatusOK, w.Code)

		// Old password no longer works, the new one does.
		w = doJSON(r, "POST", "/api/auth/login", "", map[string]string{
			"name": "olvidadiza", "password": "vieja1234",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = doJSON(r, "POST", "/api/auth/login", "", map[string]string{
			"name": "olvidadiza", "password": "nueva1234",
		})
		assert.Equal(t, http.StatusOK, w.Code)

		// The token is single use.
		w = doJSON(r, "POST", "/api/auth/reset-password", "", map[string]string{
			"token":        reset.Token,
			"new_password": "otra12345",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		expired := models.PasswordReset{
			Token:     "deadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef",
			UserID:    user.ID,
			ExpiresAt: time.Now().Add(-time.Minute),
		}
		assert.NoError(t, testDB.Create(&expired).Error)

		w := doJSON(r, "POST", "/api/auth/reset-password", "", map[string]string{
			"token":        expired.Token,
			"new_password": "nueva1234",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthMiddleware(t *testing.T) {
	testDB := setupHandlerDB(t)
	r := newRouter(testDB, &stubMailer{})

	t.Run("missing token", func(t *testing.T) {
		w := doJSON(r, "GET", "/api/cart", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := doJSON(r, "GET", "/api/cart", "Bearer not-a-jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("customer cannot reach admin routes", func(t *testing.T) {
		customer := createTestUser(t, testDB, "cliente1", models.RoleCustomer)
		w := doJSON(r, "POST", "/api/admin/coupons", bearerFor(t, customer), map[string]interface{}{
			"code": "NOPE", "discount_percent": 10,
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin can", func(t *testing.T) {
		admin := createTestUser(t, testDB, "jefa", models.RoleAdmin)
		w := doJSON(r, "POST", "/api/admin/coupons", bearerFor(t, admin), map[string]interface{}{
			"code": "ADMIN-OK", "discount_percent": 15,
		})
		assert.Equal(t, http.StatusCreated, w.Code)
	})
}
