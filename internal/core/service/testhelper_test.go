// Package service provides the domain services for grcbridge.
package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/veridane/grcbridge/internal/platform/grcapi"
)

// fakePlatform is an httptest stand-in for the vendor GRC platform.
type fakePlatform struct {
	mu sync.Mutex

	password string
	token    string
	logins   int

	// strictAuth rejects any token other than the last issued one.
	// When false, any non-empty Authorization header passes.
	strictAuth bool

	apps   []map[string]any
	quests []map[string]any
	levels []map[string]any
	fields map[int][]map[string]any

	// content maps the path under /contentapi/ to its record rows.
	content map[string][]map[string]any

	// noCount suppresses @odata.count in count-probe responses.
	noCount bool
	// failBulk rejects fetch-all requests (no $top parameter).
	failBulk bool
	// failTop rejects paged requests carrying exactly this $top.
	failTop int
	// endless serves a full page for any offset, simulating an
	// unbounded record set.
	endless bool

	countCalls int
	bulkCalls  int
	pagedCalls int

	srv *httptest.Server
}

func newFakePlatform() *fakePlatform {
	f := &fakePlatform{
		password: "secret",
		fields:   map[int][]map[string]any{},
		content:  map[string][]map[string]any{},
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	return f
}

func (f *fakePlatform) Close() {
	f.srv.Close()
}

func (f *fakePlatform) client() *grcapi.Client {
	return grcapi.New(f.srv.URL, "corp", grcapi.WithRateLimit(1000))
}

// seedCatalog installs the standard fixture: two active applications,
// one draft, one questionnaire, a level-only module, and 120 records
// behind the Risk Register.
func (f *fakePlatform) seedCatalog() {
	f.apps = []map[string]any{
		{"Id": 75, "Name": "Risk Register", "Alias": "risk_register", "Guid": "d1f3", "Status": 1, "LevelId": 7},
		{"Id": 76, "Name": "Vendor Catalog", "Alias": "vendors", "Guid": "a0b1", "Status": 1, "LevelId": 8},
		{"Id": 77, "Name": "Old Intake", "Alias": "", "Guid": "9c2d", "Status": 0, "LevelId": 9},
	}
	f.quests = []map[string]any{
		{"Id": 12, "Name": "Security Assessment", "Alias": "sec_assess", "Guid": "e4f5", "Status": 1, "TargetLevelId": 30},
	}
	f.levels = []map[string]any{
		{"Id": 7, "Alias": "risk_register_content", "ModuleId": 107, "ModuleName": "Risk Register", "IsDeleted": false},
		{"Id": 8, "Alias": "vendor_catalog", "ModuleId": 108, "ModuleName": "Vendor Catalog", "IsDeleted": false},
		{"Id": 9, "Alias": "old_intake", "ModuleId": 109, "ModuleName": "Old Intake", "IsDeleted": true},
		{"Id": 30, "Alias": "sec_assess_level", "ModuleId": 130, "ModuleName": "Security Assessment", "IsDeleted": false},
		{"Id": 41, "Alias": "findings_archive", "ModuleId": 141, "ModuleName": "Findings Archive", "IsDeleted": false},
	}
	f.fields[75] = []map[string]any{
		{"Id": 1, "Name": "Risk ID", "Alias": "Id", "Type": 1, "IsActive": true, "IsKeyField": true},
		{"Id": 2, "Name": "Title", "Alias": "Title", "Type": 1, "IsActive": true},
		{"Id": 3, "Name": "Risk Score", "Alias": "Risk_Score", "Type": 2, "IsActive": true},
		{"Id": 4, "Name": "Contact Email", "Alias": "Contact_Email", "Type": 1, "IsActive": true},
		{"Id": 5, "Name": "Legacy Notes", "Alias": "Legacy_Notes", "Type": 1, "IsActive": false},
	}

	rows := make([]map[string]any, 120)
	for i := range rows {
		rows[i] = map[string]any{
			"Id":            fmt.Sprintf("RR-%03d", i),
			"Title":         fmt.Sprintf("Risk %d", i),
			"Risk_Score":    float64(i % 10),
			"Contact_Email": fmt.Sprintf("person%d@corp.example", i),
		}
	}
	f.content["risk_register_content"] = rows
	f.content["quest/corp/130"] = []map[string]any{
		{"Id": "QA-1", "Title": "Assessment 1"},
	}
}

func (f *fakePlatform) handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/platformapi/core/security/login" {
		f.handleLogin(w, r)
		return
	}

	auth := r.Header.Get("Authorization")
	f.mu.Lock()
	ok := auth != ""
	if f.strictAuth {
		ok = auth == "GRC session-id="+f.token && f.token != ""
	}
	f.mu.Unlock()
	if !ok {
		http.Error(w, "session rejected", http.StatusUnauthorized)
		return
	}

	switch {
	case r.URL.Path == "/platformapi/core/system/application":
		writeEnvelopes(w, f.apps)
	case r.URL.Path == "/platformapi/core/system/questionnaire":
		writeEnvelopes(w, f.quests)
	case r.URL.Path == "/platformapi/core/system/level":
		writeEnvelopes(w, f.levels)
	case strings.HasPrefix(r.URL.Path, "/platformapi/core/system/fielddefinition/application/"):
		id, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/platformapi/core/system/fielddefinition/application/"))
		writeEnvelopes(w, f.fields[id])
	case strings.HasPrefix(r.URL.Path, "/contentapi/"):
		f.handleContent(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakePlatform) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserPassword string `json:"UserPassword"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	defer f.mu.Unlock()
	if body.UserPassword != f.password {
		writeJSON(w, map[string]any{
			"IsSuccessful":       false,
			"ValidationMessages": []map[string]any{{"Description": "invalid credentials"}},
		})
		return
	}
	f.logins++
	f.token = fmt.Sprintf("tok-%d", f.logins)
	writeJSON(w, map[string]any{
		"IsSuccessful":    true,
		"RequestedObject": map[string]any{"SessionToken": f.token},
	})
}

func (f *fakePlatform) handleContent(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/contentapi/")

	f.mu.Lock()
	rows, found := f.content[path]
	noCount, failBulk, failTop, endless := f.noCount, f.failBulk, f.failTop, f.endless
	f.mu.Unlock()

	if !found {
		http.NotFound(w, r)
		return
	}
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}

	q := r.URL.Query()
	if q.Get("$count") == "true" {
		f.count(&f.countCalls)
		resp := map[string]any{"value": sliceRows(rows, 0, 1)}
		if !noCount {
			resp["@odata.count"] = len(rows)
		}
		writeJSON(w, resp)
		return
	}

	topStr := q.Get("$top")
	if topStr == "" {
		f.count(&f.bulkCalls)
		if failBulk {
			http.Error(w, "bulk fetch refused", http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]any{"value": rows})
		return
	}

	f.count(&f.pagedCalls)
	top, _ := strconv.Atoi(topStr)
	if failTop != 0 && top == failTop {
		http.Error(w, "page fetch refused", http.StatusInternalServerError)
		return
	}
	skip, _ := strconv.Atoi(q.Get("$skip"))
	if endless {
		writeJSON(w, map[string]any{"value": sliceRows(rows, 0, top)})
		return
	}
	writeJSON(w, map[string]any{"value": sliceRows(rows, skip, top)})
}

func (f *fakePlatform) count(counter *int) {
	f.mu.Lock()
	*counter++
	f.mu.Unlock()
}

func sliceRows(rows []map[string]any, skip, top int) []map[string]any {
	if skip >= len(rows) {
		return []map[string]any{}
	}
	end := skip + top
	if end > len(rows) {
		end = len(rows)
	}
	return rows[skip:end]
}

func writeEnvelopes(w http.ResponseWriter, rows []map[string]any) {
	envelopes := make([]map[string]any, len(rows))
	for i, row := range rows {
		envelopes[i] = map[string]any{
			"IsSuccessful":    true,
			"RequestedObject": row,
		}
	}
	writeJSON(w, envelopes)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
