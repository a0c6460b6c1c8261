package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Checkus API",
        "description": "School administration core: identity, access control and student-guardian registry",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login, signup and token introspection"},
        {"name": "StudentGuardians", "description": "Student ↔ guardian relationship registry"},
        {"name": "Schools", "description": "School directory"},
        {"name": "Students", "description": "Student profiles"},
        {"name": "Users", "description": "Identity maintenance"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token issued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/signup": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register a new account",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Email already in use"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current user claims",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthenticated"}
                }
            }
        },
        "/student-guardians": {
            "post": {
                "tags": ["StudentGuardians"],
                "summary": "Link a guardian to a student",
                "responses": {
                    "201": {"description": "Created"},
                    "404": {"description": "Student or guardian missing"},
                    "409": {"description": "Relationship already exists"}
                }
            },
            "put": {
                "tags": ["StudentGuardians"],
                "summary": "Change relationship kind",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Relationship not found"}
                }
            }
        },
        "/student-guardians/student/{studentId}": {
            "get": {
                "tags": ["StudentGuardians"],
                "summary": "List guardians of a student",
                "parameters": [
                    {"name": "studentId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/student-guardians/guardian/{guardianId}": {
            "get": {
                "tags": ["StudentGuardians"],
                "summary": "List students of a guardian",
                "parameters": [
                    {"name": "guardianId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/student-guardians/{studentId}/{guardianId}": {
            "delete": {
                "tags": ["StudentGuardians"],
                "summary": "Unlink a guardian from a student",
                "responses": {
                    "204": {"description": "Removed"},
                    "404": {"description": "Relationship not found"}
                }
            }
        },
        "/schools": {
            "get": {
                "tags": ["Schools"],
                "summary": "List schools",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Schools"],
                "summary": "Register a school",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Name already in use"}
                }
            }
        },
        "/students/search": {
            "get": {
                "tags": ["Students"],
                "summary": "Search student profiles",
                "parameters": [
                    {"name": "school_id", "in": "query", "type": "string"},
                    {"name": "grade", "in": "query", "type": "integer"},
                    {"name": "name", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/users/{userId}/roles": {
            "put": {
                "tags": ["Users"],
                "summary": "Replace a user's role set",
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Admin only"}
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
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"}
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
