package inkwell

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// TestSuite drives godog feature files against an in-process gin router
// (or a real server when BaseURL is set).
type TestSuite struct {
	T           *testing.T
	Router      *gin.Engine
	Resp        *http.Response
	RespBody    []byte
	Storage     map[string]string
	RequestBody []byte
	BaseURL     string
	DB          *mongo.Database
}

type TestLogger struct {
	T *testing.T
}

func (l *TestLogger) Write(p []byte) (n int, err error) {
	l.T.Log(string(p))
	return len(p), nil
}

func (ts *TestSuite) InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		ts.Storage = make(map[string]string)
	})
}

func (ts *TestSuite) InitializeScenario(ctx *godog.ScenarioContext) {
	ctx.BeforeScenario(func(sc *godog.Scenario) {
		ts.Resp = nil
		ts.RespBody = nil
		ts.RequestBody = nil
	})

	ctx.Step(`^collection "([^"]*)" has the following documents$`, ts.collectionHasTheFollowingDocuments)
	ctx.Step(`^I am authenticated as "([^"]*)" with role "([^"]*)"$`, ts.iAmAuthenticatedAsWithRole)
	ctx.Step(`^I send a GET request to "([^"]*)"$`, ts.iSendAGETRequestTo)
	ctx.Step(`^I send a POST request to "([^"]*)"$`, ts.iSendAPOSTRequestTo)
	ctx.Step(`^I send a POST request to "([^"]*)" with body$`, ts.iSendAPOSTRequestToWithBody)
	ctx.Step(`^I send a PUT request to "([^"]*)" with body$`, ts.iSendAPUTRequestToWithBody)
	ctx.Step(`^I send a DELETE request to "([^"]*)"$`, ts.iSendADELETERequestTo)
	ctx.Step(`^the response status should be (\d+)$`, ts.theResponseStatusShouldBe)
	ctx.Step(`^the response "([^"]*)" field is stored as "([^"]*)"$`, ts.theResponseFieldIsStoredAs)
	ctx.Step(`^the response should contain$`, ts.theResponseShouldContain)
}

func (ts *TestSuite) collectionHasTheFollowingDocuments(collection string, data *godog.Table) error {
	if ts.DB == nil {
		return fmt.Errorf("no database bound to test suite")
	}
	docs, err := parseDataTableToDocuments(data)
	if err != nil {
		return err
	}
	_, err = ts.DB.Collection(collection).InsertMany(context.Background(), docs)
	return err
}

func (ts *TestSuite) iAmAuthenticatedAsWithRole(userId, role string) error {
	accessToken, _, err := GenerateTokens(userId, role)
	if err != nil {
		return err
	}
	ts.Storage["authToken"] = accessToken
	return nil
}

func (ts *TestSuite) iSendAGETRequestTo(path string) error {
	return ts.send("GET", path, nil)
}

func (ts *TestSuite) iSendAPOSTRequestTo(path string) error {
	return ts.send("POST", path, nil)
}

func (ts *TestSuite) iSendAPOSTRequestToWithBody(path string, body *godog.Table) error {
	payload, err := parseDataTableToJSON(body)
	if err != nil {
		return err
	}
	ts.RequestBody = payload
	return ts.send("POST", path, bytes.NewBuffer(payload))
}

func (ts *TestSuite) iSendAPUTRequestToWithBody(path string, body *godog.Table) error {
	payload, err := parseDataTableToJSON(body)
	if err != nil {
		return err
	}
	ts.RequestBody = payload
	return ts.send("PUT", path, bytes.NewBuffer(payload))
}

func (ts *TestSuite) iSendADELETERequestTo(path string) error {
	return ts.send("DELETE", path, nil)
}

func (ts *TestSuite) send(method, path string, body io.Reader) error {
	url := path
	if ts.BaseURL != "" {
		url = ts.BaseURL + path
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := ts.Storage["authToken"]; ok && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if ts.BaseURL != "" {
		client := &http.Client{}
		ts.Resp, err = client.Do(req)
		if err != nil {
			return err
		}
	} else {
		w := httptest.NewRecorder()
		ts.Router.ServeHTTP(w, req)
		ts.Resp = w.Result()
	}

	ts.RespBody, err = io.ReadAll(ts.Resp.Body)
	return err
}

func (ts *TestSuite) theResponseStatusShouldBe(status int) error {
	if ts.Resp.StatusCode != status {
		return fmt.Errorf("expected status %d, got %d (body: %s)", status, ts.Resp.StatusCode, string(ts.RespBody))
	}
	return nil
}

func (ts *TestSuite) theResponseFieldIsStoredAs(field, key string) error {
	var data map[string]interface{}
	if err := json.Unmarshal(ts.RespBody, &data); err != nil {
		return err
	}
	if val, ok := data[field]; ok {
		ts.Storage[key] = fmt.Sprintf("%v", val)
		return nil
	}
	return fmt.Errorf("field %s not found in response", field)
}

func (ts *TestSuite) theResponseShouldContain(body *godog.Table) error {
	expected, err := parseDataTableToJSON(body)
	if err != nil {
		return err
	}

	var expectedMap map[string]interface{}
	if err := json.Unmarshal(expected, &expectedMap); err != nil {
		return err
	}

	var actualMap map[string]interface{}
	if err := json.Unmarshal(ts.RespBody, &actualMap); err != nil {
		return err
	}

	for key, expectedValue := range expectedMap {
		actualValue, ok := actualMap[key]
		if !ok {
			return fmt.Errorf("field %s not found in response", key)
		}
		assert.Equal(ts.T, fmt.Sprintf("%v", expectedValue), fmt.Sprintf("%v", actualValue))
	}
	return nil
}

// parseDataTableToJSON turns a two-row table (headers + one value row) into
// a JSON object. Cells that parse as JSON keep their type; everything else
// stays a string.
func parseDataTableToJSON(body *godog.Table) ([]byte, error) {
	if len(body.Rows) < 2 {
		return nil, fmt.Errorf("table must have at least two rows")
	}
	headers := body.Rows[0].Cells
	data := make(map[string]interface{})
	row := body.Rows[1]
	for j, cell := range row.Cells {
		data[headers[j].Value] = parseCell(cell.Value)
	}
	return json.Marshal(data)
}

// parseDataTableToDocuments turns a table into one bson document per value
// row, for direct insertion into a collection.
func parseDataTableToDocuments(body *godog.Table) ([]interface{}, error) {
	if len(body.Rows) < 2 {
		return nil, fmt.Errorf("table must have at least two rows")
	}
	headers := body.Rows[0].Cells
	var docs []interface{}
	for i := 1; i < len(body.Rows); i++ {
		doc := bson.M{}
		for j, cell := range body.Rows[i].Cells {
			doc[headers[j].Value] = parseCell(cell.Value)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func parseCell(value string) interface{} {
	var parsed interface{}
	if err := json.Unmarshal([]byte(value), &parsed); err == nil {
		return parsed
	}
	return value
}
