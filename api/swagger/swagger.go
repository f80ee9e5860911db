package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Agenda API",
        "description": "Personal school planner: subjects, grades, schedule, tasks, events and class reminders",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Authentication", "description": "Account registration and sessions"},
        {"name": "Subjects", "description": "Subject catalogue grouped by course"},
        {"name": "Grades", "description": "Graded items, weighted finals and exports"},
        {"name": "Schedule", "description": "Weekly recurring classes"},
        {"name": "Tasks", "description": "To-do items per subject"},
        {"name": "Events", "description": "Dated calendar events"},
        {"name": "Planner", "description": "Combined day view"},
        {"name": "Push", "description": "Push delivery subscriptions"},
        {"name": "Internal", "description": "Operational endpoints"}
    ],
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Create account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email taken"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
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
                "tags": ["Authentication"],
                "summary": "Refresh access token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current user profile",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects": {
            "get": {
                "tags": ["Subjects"],
                "summary": "List subjects",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "grouped", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Subjects"],
                "summary": "Create subject",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSubjectRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/grades/overview": {
            "get": {
                "tags": ["Grades"],
                "summary": "Grade overview",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/grades/overview/export": {
            "get": {
                "tags": ["Grades"],
                "summary": "Export grade overview",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/schedules": {
            "get": {
                "tags": ["Schedule"],
                "summary": "List schedule entries",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "view", "in": "query", "type": "string", "enum": ["week"]},
                    {"name": "weekday", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/tasks": {
            "get": {
                "tags": ["Tasks"],
                "summary": "List tasks",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "subject_id", "in": "query", "type": "string"},
                    {"name": "due_date", "in": "query", "type": "string"},
                    {"name": "completed", "in": "query", "type": "boolean"},
                    {"name": "view", "in": "query", "type": "string", "enum": ["board"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/tasks/{id}/toggle": {
            "patch": {
                "tags": ["Tasks"],
                "summary": "Toggle task completion",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events": {
            "get": {
                "tags": ["Events"],
                "summary": "List calendar events",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "date", "in": "query", "type": "string"},
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/planner/day": {
            "get": {
                "tags": ["Planner"],
                "summary": "Day plan",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "date", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/push/tokens": {
            "post": {
                "tags": ["Push"],
                "summary": "Register a push subscription",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/internal/reminders/run": {
            "post": {
                "tags": ["Internal"],
                "summary": "Trigger a reminder sweep",
                "parameters": [
                    {"name": "X-Runner-Secret", "in": "header", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden"}
                }
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "full_name": {"type": "string"}
            },
            "required": ["email", "password", "full_name"]
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "CreateSubjectRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "color": {"type": "string"},
                "course": {"type": "integer"}
            },
            "required": ["name", "course"]
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
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
