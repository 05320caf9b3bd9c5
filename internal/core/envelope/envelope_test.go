package envelope

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entity struct {
	ID   int    `json:"id"`
	Code string `json:"code"`
}

func TestDecode_Success(t *testing.T) {
	res, err := Decode[entity]([]byte(`{"status":"success","data":{"id":3,"code":"HR"},"message":"ok"}`))
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, entity{ID: 3, Code: "HR"}, res.Data)
	assert.Equal(t, "ok", res.Message)
	assert.True(t, res.Errors.Empty())
}

func TestDecode_ErrorList(t *testing.T) {
	body := `{"status":"error","message":"Validation error","errors":[{"field":"email","message":"Invalid","code":"invalid"},{"message":"General"},"plain"]}`
	res, err := Decode[entity]([]byte(body))
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Equal(t, ShapeList, res.Errors.Shape())
	assert.Equal(t, []ErrorItem{
		{Field: "email", Message: "Invalid", Code: "invalid"},
		{Message: "General"},
		{Message: "plain"},
	}, res.Errors.List())
}

func TestDecode_LegacyMapKeepsOrder(t *testing.T) {
	body := `{"status":"error","message":"Validation error","errors":{"new_password":["Too short","Too common"],"current_password":"Wrong"}}`
	res, err := Decode[entity]([]byte(body))
	require.NoError(t, err)
	require.Equal(t, ShapeLegacyMap, res.Errors.Shape())
	assert.Equal(t, []FieldMessages{
		{Field: "new_password", Messages: []string{"Too short", "Too common"}},
		{Field: "current_password", Messages: []string{"Wrong"}},
	}, res.Errors.Legacy())

	assert.Equal(t, []ErrorItem{
		{Field: "new_password", Message: "Too short"},
		{Field: "new_password", Message: "Too common"},
		{Field: "current_password", Message: "Wrong"},
	}, res.Errors.Items())
}

func TestDecode_DjangoDetail(t *testing.T) {
	res, err := Decode[entity]([]byte(`{"detail":"Authentication credentials were not provided."}`))
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Equal(t, "Authentication credentials were not provided.", res.Message)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode[entity]([]byte(`<html>bad gateway</html>`))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Decode[entity]([]byte(`{"status":"pending"}`))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestResponse_MarshalError(t *testing.T) {
	res := Failure[entity]("Validation error", ListDetails(ErrorItem{Field: "code", Message: "Code already exists"}))
	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"error","message":"Validation error","errors":[{"field":"code","message":"Code already exists"}]}`, string(b))
}

func TestResponse_MarshalLegacy(t *testing.T) {
	res := Failure[entity]("Validation error", LegacyDetails(
		FieldMessages{Field: "b", Messages: []string{"x"}},
		FieldMessages{Field: "a", Messages: []string{"y", "z"}},
	))
	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Equal(t, `{"status":"error","message":"Validation error","errors":{"b":["x"],"a":["y","z"]}}`, string(b))
}

func TestPage_Shapes(t *testing.T) {
	cases := map[string]struct {
		body  string
		total int
		n     int
	}{
		"bare array":        {`[{"id":1},{"id":2}]`, 2, 2},
		"items and total":   {`{"items":[{"id":1}],"total":40,"page":2,"page_size":1}`, 40, 1},
		"items and count":   {`{"items":[{"id":1}],"count":7,"total_pages":7}`, 7, 1},
		"results and count": {`{"results":[{"id":1},{"id":2},{"id":3}],"count":12}`, 12, 3},
		"items only":        {`{"items":[{"id":1},{"id":2}]}`, 2, 2},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var p Page[entity]
			require.NoError(t, json.Unmarshal([]byte(tc.body), &p))
			assert.Equal(t, tc.total, p.Total)
			assert.Equal(t, tc.n, p.Len())
		})
	}
}

func TestDecode_PageInsideEnvelope(t *testing.T) {
	res, err := Decode[Page[entity]]([]byte(`{"status":"success","data":{"results":[],"count":0}}`))
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, 0, res.Data.Total)
	assert.Empty(t, res.Data.Items)
}
