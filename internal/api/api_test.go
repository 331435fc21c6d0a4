package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/plateful/backend/internal/api"
	"github.com/plateful/backend/internal/router"
	"github.com/plateful/backend/internal/service"
	"github.com/plateful/backend/internal/testhelpers"
)

type testAPI struct {
	engine *gin.Engine
	db     *gorm.DB
	auth   *service.AuthService
}

func setupTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDatabase(t)
	authService := service.NewAuthService(db, "test-secret")

	authHandler := api.NewAuthHandler(authService)
	recipeHandler := api.NewRecipeHandler(
		service.NewRecipeService(db),
		service.NewRelationService(db),
		service.NewShoppingListService(db),
		nil,
		6,
	)
	catalogHandler := api.NewCatalogHandler(service.NewCatalogService(db))
	userHandler := api.NewUserHandler(service.NewSubscriptionService(db), authHandler, 6)

	engine := router.SetupRouter(authHandler, recipeHandler, catalogHandler, userHandler, authService, nil, nil)
	return &testAPI{engine: engine, db: db, auth: authService}
}

func (a *testAPI) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

// registerUser creates an account over the API and returns its token.
func (a *testAPI) registerUser(t *testing.T, username string) string {
	t.Helper()

	w := a.request(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":      fmt.Sprintf("%s@example.com", username),
		"username":   username,
		"first_name": username,
		"last_name":  "Tester",
		"password":   "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp api.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestAuthEndpoints(t *testing.T) {
	a := setupTestAPI(t)

	token := a.registerUser(t, "alice")

	t.Run("me requires auth", func(t *testing.T) {
		w := a.request(t, http.MethodGet, "/api/users/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("me returns the profile", func(t *testing.T) {
		w := a.request(t, http.MethodGet, "/api/users/me", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var me map[string]interface{}
		decode(t, w, &me)
		assert.Equal(t, "alice", me["username"])
		assert.Equal(t, "alice@example.com", me["email"])
	})

	t.Run("duplicate registration", func(t *testing.T) {
		w := a.request(t, http.MethodPost, "/api/auth/register", "", gin.H{
			"email":      "alice@example.com",
			"username":   "alice",
			"first_name": "Alice",
			"last_name":  "Tester",
			"password":   "password123",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("login", func(t *testing.T) {
		w := a.request(t, http.MethodPost, "/api/auth/login", "", gin.H{
			"email":    "alice@example.com",
			"password": "password123",
		})
		assert.Equal(t, http.StatusOK, w.Code)

		w = a.request(t, http.MethodPost, "/api/auth/login", "", gin.H{
			"email":    "alice@example.com",
			"password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRecipeEndpoints(t *testing.T) {
	a := setupTestAPI(t)

	aliceToken := a.registerUser(t, "alice")
	bobToken := a.registerUser(t, "bob")

	tag := testhelpers.CreateTestTag(t, a.db, "Dinner", "#8775D2", "dinner")
	salt := testhelpers.CreateTestIngredient(t, a.db, "Salt", "g")

	payload := gin.H{
		"name":         "Soup",
		"description":  "Boil everything",
		"cooking_time": 20,
		"tags":         []string{tag.ID.String()},
		"ingredients":  []gin.H{{"id": salt.ID.String(), "amount": 3}},
	}

	var recipeID string

	t.Run("create requires auth", func(t *testing.T) {
		w := a.request(t, http.MethodPost, "/api/recipes", "", payload)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("create returns the hydrated detail", func(t *testing.T) {
		w := a.request(t, http.MethodPost, "/api/recipes", aliceToken, payload)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var detail service.RecipeDetail
		decode(t, w, &detail)
		assert.Equal(t, "Soup", detail.Name)
		require.NotNil(t, detail.Author)
		assert.Equal(t, "alice", detail.Author.Username)
		require.Len(t, detail.Ingredients, 1)
		assert.Equal(t, "Salt", detail.Ingredients[0].Name)
		recipeID = detail.ID.String()
	})

	t.Run("create with unknown tag", func(t *testing.T) {
		bad := gin.H{
			"name":         "Stew",
			"description":  "desc",
			"cooking_time": 10,
			"tags":         []string{uuid.New().String()},
			"ingredients":  []gin.H{{"id": salt.ID.String(), "amount": 1}},
		}
		w := a.request(t, http.MethodPost, "/api/recipes", aliceToken, bad)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("anonymous read", func(t *testing.T) {
		w := a.request(t, http.MethodGet, "/api/recipes/"+recipeID, "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var detail service.RecipeDetail
		decode(t, w, &detail)
		assert.False(t, detail.IsFavorited)
		require.NotNil(t, detail.Author)
		assert.False(t, detail.Author.IsSubscribed)
	})

	t.Run("list envelope", func(t *testing.T) {
		w := a.request(t, http.MethodGet, "/api/recipes", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Count   int64                  `json:"count"`
			Results []service.RecipeDetail `json:"results"`
		}
		decode(t, w, &resp)
		assert.Equal(t, int64(1), resp.Count)
		require.Len(t, resp.Results, 1)
	})

	t.Run("update by non-author", func(t *testing.T) {
		w := a.request(t, http.MethodPatch, "/api/recipes/"+recipeID, bobToken, payload)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("update by author", func(t *testing.T) {
		changed := gin.H{
			"name":         "Thick soup",
			"description":  "Boil longer",
			"cooking_time": 40,
			"tags":         []string{tag.ID.String()},
			"ingredients":  []gin.H{{"id": salt.ID.String(), "amount": 5}},
		}
		w := a.request(t, http.MethodPatch, "/api/recipes/"+recipeID, aliceToken, changed)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var detail service.RecipeDetail
		decode(t, w, &detail)
		assert.Equal(t, "Thick soup", detail.Name)
		assert.Equal(t, 40, detail.CookingTime)
	})

	t.Run("delete", func(t *testing.T) {
		w := a.request(t, http.MethodDelete, "/api/recipes/"+recipeID, bobToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = a.request(t, http.MethodDelete, "/api/recipes/"+recipeID, aliceToken, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = a.request(t, http.MethodGet, "/api/recipes/"+recipeID, "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestFavoriteEndpoints(t *testing.T) {
	a := setupTestAPI(t)

	a.registerUser(t, "alice")
	bobToken := a.registerUser(t, "bob")

	tag := testhelpers.CreateTestTag(t, a.db, "Dinner", "#8775D2", "dinner")
	salt := testhelpers.CreateTestIngredient(t, a.db, "Salt", "g")
	author := testhelpers.CreateTestUser(t, a.db, "carol")
	recipe := testhelpers.CreateTestRecipe(t, a.db, author, "Soup", tag, salt, 3)

	path := "/api/recipes/" + recipe.ID.String() + "/favorite"

	w := a.request(t, http.MethodPost, path, bobToken, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var short service.RecipeShort
	decode(t, w, &short)
	assert.Equal(t, "Soup", short.Name)

	w = a.request(t, http.MethodPost, path, bobToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.request(t, http.MethodDelete, path, bobToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = a.request(t, http.MethodDelete, path, bobToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.request(t, http.MethodPost, "/api/recipes/"+uuid.New().String()+"/favorite", bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestShoppingCartEndpoints(t *testing.T) {
	a := setupTestAPI(t)

	bobToken := a.registerUser(t, "bob")

	tag := testhelpers.CreateTestTag(t, a.db, "Dinner", "#8775D2", "dinner")
	salt := testhelpers.CreateTestIngredient(t, a.db, "Salt", "g")
	author := testhelpers.CreateTestUser(t, a.db, "carol")
	soup := testhelpers.CreateTestRecipe(t, a.db, author, "Soup", tag, salt, 5)
	bread := testhelpers.CreateTestRecipe(t, a.db, author, "Bread", tag, salt, 3)

	w := a.request(t, http.MethodPost, "/api/recipes/"+soup.ID.String()+"/shopping_cart", bobToken, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = a.request(t, http.MethodPost, "/api/recipes/"+bread.ID.String()+"/shopping_cart", bobToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("download requires auth", func(t *testing.T) {
		w := a.request(t, http.MethodGet, "/api/recipes/download_shopping_cart", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("download aggregates shared ingredients", func(t *testing.T) {
		w := a.request(t, http.MethodGet, "/api/recipes/download_shopping_cart", bobToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Disposition"), "shopping_list.txt")
		assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
		assert.Equal(t, "Shopping list:\nSalt(g) - 8", w.Body.String())
	})

	t.Run("filter by cart membership", func(t *testing.T) {
		w := a.request(t, http.MethodGet, "/api/recipes?is_in_shopping_cart=1", bobToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Count int64 `json:"count"`
		}
		decode(t, w, &resp)
		assert.Equal(t, int64(2), resp.Count)
	})
}

func TestCatalogEndpoints(t *testing.T) {
	a := setupTestAPI(t)

	tag := testhelpers.CreateTestTag(t, a.db, "Dinner", "#8775D2", "dinner")
	testhelpers.CreateTestIngredient(t, a.db, "Salt", "g")
	testhelpers.CreateTestIngredient(t, a.db, "Sugar", "g")
	testhelpers.CreateTestIngredient(t, a.db, "Flour", "g")

	t.Run("tags", func(t *testing.T) {
		w := a.request(t, http.MethodGet, "/api/tags", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var tags []map[string]interface{}
		decode(t, w, &tags)
		require.Len(t, tags, 1)
		assert.Equal(t, "dinner", tags[0]["slug"])

		w = a.request(t, http.MethodGet, "/api/tags/"+tag.ID.String(), "", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = a.request(t, http.MethodGet, "/api/tags/"+uuid.New().String(), "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("ingredient prefix search", func(t *testing.T) {
		w := a.request(t, http.MethodGet, "/api/ingredients?name=s", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var ingredients []map[string]interface{}
		decode(t, w, &ingredients)
		require.Len(t, ingredients, 2)
		assert.Equal(t, "Salt", ingredients[0]["name"])
	})
}

func TestSubscriptionEndpoints(t *testing.T) {
	a := setupTestAPI(t)

	aliceToken := a.registerUser(t, "alice")
	bobToken := a.registerUser(t, "bob")

	var aliceID, bobID string
	for token, id := range map[string]*string{aliceToken: &aliceID, bobToken: &bobID} {
		w := a.request(t, http.MethodGet, "/api/users/me", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var me map[string]interface{}
		decode(t, w, &me)
		*id = me["id"].(string)
	}

	t.Run("subscribe", func(t *testing.T) {
		w := a.request(t, http.MethodPost, "/api/users/"+aliceID+"/subscribe", bobToken, nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var item service.SubscriptionItem
		decode(t, w, &item)
		assert.Equal(t, "alice", item.Username)
		assert.True(t, item.IsSubscribed)
	})

	t.Run("duplicate subscribe", func(t *testing.T) {
		w := a.request(t, http.MethodPost, "/api/users/"+aliceID+"/subscribe", bobToken, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("self subscribe", func(t *testing.T) {
		w := a.request(t, http.MethodPost, "/api/users/"+bobID+"/subscribe", bobToken, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("profile shows the viewer flag", func(t *testing.T) {
		w := a.request(t, http.MethodGet, "/api/users/"+aliceID, bobToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var profile service.UserSummary
		decode(t, w, &profile)
		assert.True(t, profile.IsSubscribed)

		w = a.request(t, http.MethodGet, "/api/users/"+aliceID, "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		decode(t, w, &profile)
		assert.False(t, profile.IsSubscribed)
	})

	t.Run("subscriptions list", func(t *testing.T) {
		w := a.request(t, http.MethodGet, "/api/users/subscriptions", bobToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Count   int64                      `json:"count"`
			Results []service.SubscriptionItem `json:"results"`
		}
		decode(t, w, &resp)
		assert.Equal(t, int64(1), resp.Count)
		require.Len(t, resp.Results, 1)
		assert.Equal(t, "alice", resp.Results[0].Username)
	})

	t.Run("unsubscribe", func(t *testing.T) {
		w := a.request(t, http.MethodDelete, "/api/users/"+aliceID+"/subscribe", bobToken, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = a.request(t, http.MethodDelete, "/api/users/"+aliceID+"/subscribe", bobToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
