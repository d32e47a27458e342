// Package docs registers the OpenAPI document served under /swagger/.
// The handler annotations in users and tasks describe the same operations; after
// changing them, regenerate this file with `swag init -g main.go`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/user/signup": {
            "post": {
                "tags": ["User"],
                "summary": "User sign-up",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/users.SignUpRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/webutil.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/user/signin": {
            "post": {
                "tags": ["User"],
                "summary": "User sign-in",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/users.SignInRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/webutil.TokenEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/task/get-all": {
            "get": {
                "tags": ["Task"],
                "summary": "List all tasks",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/webutil.Envelope"}}}
            }
        },
        "/task/get-paginated-tasks": {
            "get": {
                "tags": ["Task"],
                "summary": "List all tasks, one page at a time",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "description": "Page number (default 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size (default 10, max 100)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/webutil.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/task/get-tasks": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Task"],
                "summary": "List the caller's tasks",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/webutil.Envelope"}}}
            }
        },
        "/task/get-complete": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Task"],
                "summary": "List the caller's completed tasks",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/webutil.Envelope"}}}
            }
        },
        "/task/get-incomplete": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Task"],
                "summary": "List the caller's incomplete tasks",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/webutil.Envelope"}}}
            }
        },
        "/task/get/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Task"],
                "summary": "Get a task by id",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "Task id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/webutil.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/task/create": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Task"],
                "summary": "Create a task",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/tasks.CreateTaskRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/webutil.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/task/update-complete-task/{id}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Task"],
                "summary": "Update one of the caller's tasks",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Task id", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/tasks.UpdateTaskRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/webutil.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/task/update-task/{id}": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["Task"],
                "summary": "Update one of the caller's tasks",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Task id", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/tasks.UpdateTaskRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/webutil.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/task/delete-task/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Task"],
                "summary": "Delete one of the caller's tasks",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "Task id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/webutil.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "apperror.ErrorResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "data": {}}
        },
        "webutil.Envelope": {
            "type": "object",
            "properties": {"message": {"type": "string", "example": "Tasks fetched successfully."}, "data": {}}
        },
        "webutil.TokenEnvelope": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "token": {"type": "string"}}
        },
        "users.SignUpRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "example": "Jane"},
                "email": {"type": "string", "example": "jane@example.com"},
                "password": {"type": "string", "example": "Passw0rd!"}
            }
        },
        "users.SignInRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string", "example": "jane@example.com"},
                "password": {"type": "string", "example": "Passw0rd!"}
            }
        },
        "tasks.CreateTaskRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string", "example": "Buy milk"},
                "description": {"type": "string", "example": "Two litres, semi-skimmed"}
            }
        },
        "tasks.UpdateTaskRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "completed": {"type": "boolean"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type 'Bearer YOUR_JWT_TOKEN' to authorize",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Task Manager API",
	Description:      "Users sign up, sign in, and manage their own tasks.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
