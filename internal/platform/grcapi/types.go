// Package grcapi provides the HTTP client for the vendor GRC platform.
package grcapi

import "encoding/json"

// envelope is the platform API response wrapper.
type envelope struct {
	IsSuccessful    bool              `json:"IsSuccessful"`
	RequestedObject json.RawMessage   `json:"RequestedObject"`
	ValidationMessages []struct {
		Description string `json:"Description"`
	} `json:"ValidationMessages,omitempty"`
}

// loginRequest is the body of the login call.
type loginRequest struct {
	InstanceName string `json:"InstanceName"`
	Username     string `json:"UserName"`
	Password     string `json:"UserPassword"`
}

// loginObject is the requested object of a successful login.
type loginObject struct {
	SessionToken string `json:"SessionToken"`
}

// ApplicationObject is one application row of the catalog.
type ApplicationObject struct {
	ID          int    `json:"Id"`
	Name        string `json:"Name"`
	Alias       string `json:"Alias"`
	GUID        string `json:"Guid"`
	Status      int    `json:"Status"`
	LevelID     int    `json:"LevelId"`
}

// QuestionnaireObject is one questionnaire row of the catalog. The level
// linkage travels under a different field name than for applications;
// the semantics are the same.
type QuestionnaireObject struct {
	ID             int    `json:"Id"`
	Name           string `json:"Name"`
	Alias          string `json:"Alias"`
	GUID           string `json:"Guid"`
	Status         int    `json:"Status"`
	TargetLevelID  int    `json:"TargetLevelId"`
}

// LevelObject is one row of the level table.
type LevelObject struct {
	ID         int    `json:"Id"`
	Alias      string `json:"Alias"`
	ModuleID   int    `json:"ModuleId"`
	ModuleName string `json:"ModuleName"`
	IsDeleted  bool   `json:"IsDeleted"`
}

// FieldObject is one field definition row.
type FieldObject struct {
	ID           int    `json:"Id"`
	Name         string `json:"Name"`
	Alias        string `json:"Alias"`
	Type         int    `json:"Type"`
	IsActive     bool   `json:"IsActive"`
	IsCalculated bool   `json:"IsCalculated"`
	IsRequired   bool   `json:"IsRequired"`
	IsKey        bool   `json:"IsKeyField"`
}

// contentResponse is the content API record page shape.
type contentResponse struct {
	Count *int             `json:"@odata.count,omitempty"`
	Value []map[string]any `json:"value"`
}
