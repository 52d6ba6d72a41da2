// Package docs registers the OpenAPI document served at /swagger.
// Regenerate with: swag init -g cmd/api/main.go -o cmd/api/docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support"
        },
        "license": {
            "name": "Apache 2.0",
            "url": "http://www.apache.org/licenses/LICENSE-2.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.HealthResponse"}}
                }
            }
        },
        "/survey": {
            "get": {
                "produces": ["application/json"],
                "tags": ["survey"],
                "summary": "Get the survey definition",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}}
                }
            }
        },
        "/dashboard": {
            "get": {
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Get the impact dashboard",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.DashboardResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/sessions": {
            "post": {
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Start a survey session",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.SessionResponse"}}
                }
            }
        },
        "/sessions/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Get a survey session",
                "parameters": [{"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SessionResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/sessions/{id}/fields": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Write one answer field",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true},
                    {"description": "Field and value", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.SetFieldRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SessionResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/sessions/{id}/options/toggle": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Toggle a checkbox option",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true},
                    {"description": "Question and option", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.ToggleOptionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SessionResponse"}}
                }
            }
        },
        "/sessions/{id}/matrix": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Answer a matrix row",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true},
                    {"description": "Question, row and rating", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.SetMatrixRowRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SessionResponse"}}
                }
            }
        },
        "/sessions/{id}/progress": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Get completion progress",
                "parameters": [{"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ProgressResponse"}}
                }
            }
        },
        "/sessions/{id}/validate": {
            "post": {
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Validate all answers",
                "parameters": [{"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ValidationResponse"}}
                }
            }
        },
        "/sessions/{id}/payload": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Preview the sheet row",
                "parameters": [{"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.PayloadResponse"}}
                }
            }
        },
        "/sessions/{id}/submit": {
            "post": {
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Submit the survey",
                "parameters": [{"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SubmitResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/sessions/{id}/reset": {
            "post": {
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Start the survey over",
                "parameters": [{"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SessionResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.HealthResponse": {
            "type": "object",
            "properties": {"status": {"type": "string"}, "storage": {"type": "string"}}
        },
        "dto.SessionResponse": {
            "type": "object",
            "properties": {
                "session_id": {"type": "string"},
                "state": {"type": "string"},
                "answers": {"type": "object", "additionalProperties": true},
                "invalid_fields": {"type": "array", "items": {"type": "string"}},
                "progress": {"type": "integer"}
            }
        },
        "dto.SetFieldRequest": {
            "type": "object",
            "properties": {"key": {"type": "string"}, "value": {}}
        },
        "dto.ToggleOptionRequest": {
            "type": "object",
            "properties": {"question_id": {"type": "string"}, "value": {"type": "string"}}
        },
        "dto.SetMatrixRowRequest": {
            "type": "object",
            "properties": {"question_id": {"type": "string"}, "row_id": {"type": "string"}, "value": {"type": "string"}}
        },
        "dto.ProgressResponse": {
            "type": "object",
            "properties": {"session_id": {"type": "string"}, "progress": {"type": "integer"}}
        },
        "dto.ValidationResponse": {
            "type": "object",
            "properties": {
                "valid": {"type": "boolean"},
                "invalid_fields": {"type": "array", "items": {"type": "string"}},
                "first_invalid": {"type": "string"}
            }
        },
        "dto.PayloadResponse": {
            "type": "object",
            "properties": {
                "session_id": {"type": "string"},
                "columns": {
                    "type": "array",
                    "items": {"type": "object", "properties": {"header": {"type": "string"}, "value": {"type": "string"}}}
                }
            }
        },
        "dto.SubmitResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "state": {"type": "string"},
                "invalid_fields": {"type": "array", "items": {"type": "string"}},
                "first_invalid": {"type": "string"},
                "message": {"type": "string"},
                "submitted_at": {"type": "string"}
            }
        },
        "dto.DashboardResponse": {
            "type": "object",
            "properties": {
                "respondents": {"type": "integer"},
                "divisions": {"type": "integer"},
                "kpi": {"type": "object"},
                "mindset": {"type": "object"},
                "speed": {"type": "object"},
                "top_barriers": {"type": "array", "items": {"type": "object"}},
                "top_impacts": {"type": "array", "items": {"type": "object"}},
                "recorded_rows": {"type": "integer"},
                "simulated_dataset": {"type": "boolean"}
            }
        },
        "middleware.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "object", "additionalProperties": true}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8090",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "Pulse Survey API",
	Description:      "Multi-section impact survey with persisted drafts, validation and spreadsheet submission.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
