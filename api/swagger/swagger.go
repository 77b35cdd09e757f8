package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "E-Surat API",
        "description": "Letter registry: incoming/outgoing correspondence, dispositions, calendar and reminders",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Authentication"},
        {"name": "Incoming Letters", "description": "Surat masuk register"},
        {"name": "Outgoing Letters", "description": "Surat keluar register"},
        {"name": "Dispositions", "description": "Routing of incoming letters"},
        {"name": "Calendar", "description": "Events derived from invitation letters"},
        {"name": "Notifications", "description": "In-app notification feed"},
        {"name": "Reports", "description": "Agenda book exports"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Login",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Auth"],
                "summary": "Rotate refresh token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current user profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/incoming-letters": {
            "get": {
                "tags": ["Incoming Letters"],
                "summary": "List incoming letters",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "nature", "in": "query", "type": "string"},
                    {"name": "is_invitation", "in": "query", "type": "boolean"},
                    {"name": "start_date", "in": "query", "type": "string"},
                    {"name": "end_date", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Incoming Letters"],
                "summary": "Register incoming letter",
                "consumes": ["application/json", "multipart/form-data"],
                "parameters": [
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/CreateLetterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation failed"},
                    "409": {"description": "Duplicate letter number"}
                }
            }
        },
        "/incoming-letters/{id}": {
            "get": {
                "tags": ["Incoming Letters"],
                "summary": "Get letter with current disposition",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Incoming Letters"],
                "summary": "Patch letter",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Not the owner"}
                }
            },
            "delete": {
                "tags": ["Incoming Letters"],
                "summary": "Delete letter and derived records",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/incoming-letters/{id}/download": {
            "get": {
                "tags": ["Incoming Letters"],
                "summary": "Download attachment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File stream"},
                    "404": {"description": "No attachment"}
                }
            }
        },
        "/incoming-letters/{id}/dispositions": {
            "get": {
                "tags": ["Dispositions"],
                "summary": "Routing history, newest first",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/outgoing-letters": {
            "get": {
                "tags": ["Outgoing Letters"],
                "summary": "List outgoing letters",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Outgoing Letters"],
                "summary": "Register outgoing letter",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dispositions": {
            "post": {
                "tags": ["Dispositions"],
                "summary": "Route an incoming letter",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateDispositionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Not an incoming letter or unknown department"}
                }
            }
        },
        "/dispositions/{id}": {
            "put": {
                "tags": ["Dispositions"],
                "summary": "Correct a routing row",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/calendar/events": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Events inside a date window",
                "parameters": [
                    {"name": "start", "in": "query", "required": true, "type": "string"},
                    {"name": "end", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/calendar/upcoming": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Next events from today onward",
                "parameters": [
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/notifications": {
            "get": {
                "tags": ["Notifications"],
                "summary": "Viewer-scoped feed with unread count",
                "parameters": [
                    {"name": "unread_only", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/notifications/{id}/read": {
            "patch": {
                "tags": ["Notifications"],
                "summary": "Mark one notification read",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Marked"}
                }
            }
        },
        "/notifications/read-all": {
            "patch": {
                "tags": ["Notifications"],
                "summary": "Mark all notifications read",
                "responses": {
                    "204": {"description": "Marked"}
                }
            }
        },
        "/reports/agenda": {
            "get": {
                "tags": ["Reports"],
                "summary": "Export the agenda book (admin only)",
                "parameters": [
                    {"name": "direction", "in": "query", "required": true, "type": "string"},
                    {"name": "start", "in": "query", "required": true, "type": "string"},
                    {"name": "end", "in": "query", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/download": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download a generated report via signed token",
                "parameters": [
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File stream"},
                    "403": {"description": "Invalid or expired token"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "CreateLetterRequest": {
            "type": "object",
            "properties": {
                "letter_number": {"type": "string"},
                "nature": {"type": "string", "enum": ["BIASA", "TERBATAS", "RAHASIA", "SANGAT_RAHASIA", "PENTING"]},
                "security_class": {"type": "string"},
                "sender": {"type": "string"},
                "recipient": {"type": "string"},
                "processor": {"type": "string"},
                "received_date": {"type": "string", "format": "date-time"},
                "subject": {"type": "string"},
                "note": {"type": "string"},
                "is_invitation": {"type": "boolean"},
                "event_date": {"type": "string", "format": "date-time"},
                "event_time": {"type": "string"},
                "event_location": {"type": "string"},
                "event_notes": {"type": "string"},
                "needs_follow_up": {"type": "boolean"},
                "follow_up_deadline": {"type": "string", "format": "date-time"},
                "disposition_method": {"type": "string", "enum": ["MANUAL", "EXTERNAL_SYSTEM"]},
                "disposition_target": {"type": "string"},
                "external_ref_number": {"type": "string"}
            },
            "required": ["letter_number", "nature", "sender", "recipient", "processor", "received_date", "subject"]
        },
        "CreateDispositionRequest": {
            "type": "object",
            "properties": {
                "letter_id": {"type": "string"},
                "target": {"type": "string", "enum": ["SEKRETARIAT", "TATA_USAHA", "KEUANGAN", "KEPEGAWAIAN", "PROGRAM", "UMUM"]},
                "notes": {"type": "string"}
            },
            "required": ["letter_id", "target"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "current": {"type": "integer"},
                "limit": {"type": "integer"},
                "total": {"type": "integer"},
                "pages": {"type": "integer"}
            }
        },
        "FieldError": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/FieldError"}
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "items": {"type": "array", "items": {"type": "object"}},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
