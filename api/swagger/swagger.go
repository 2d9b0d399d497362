package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "PJBL Tracker API",
        "description": "Dimension scoring engine for project-based learning tracking",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Scoring", "description": "Per-submission scoring, roll-ups and recompute"},
        {"name": "Students", "description": "Student engagement"},
        {"name": "Catalog", "description": "Instruments and dimensions"}
    ],
    "paths": {
        "/scoring/submissions/{id}": {
            "post": {
                "tags": ["Scoring"],
                "summary": "Score one submission",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Submission or instrument not found"},
                    "400": {"description": "Malformed submission content"}
                }
            }
        },
        "/scoring/students/{id}": {
            "get": {
                "tags": ["Scoring"],
                "summary": "Student dimension roll-up",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "projectId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Student not found"}
                }
            }
        },
        "/scoring/classes/{id}": {
            "get": {
                "tags": ["Scoring"],
                "summary": "Class dimension roll-up",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "projectId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Class not found"}
                }
            }
        },
        "/scoring/recompute": {
            "post": {
                "tags": ["Scoring"],
                "summary": "Recompute project scores",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecomputeRequest"}}
                ],
                "responses": {
                    "200": {"description": "Batch result", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "202": {"description": "Recompute enqueued"}
                }
            }
        },
        "/students/{id}/streak": {
            "get": {
                "tags": ["Students"],
                "summary": "Trailing submission streak",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Student not found"}
                }
            }
        },
        "/instruments/{id}/questions": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List instrument questions",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Instrument not found"}
                }
            }
        },
        "/dimensions": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List scoring dimensions",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "RecomputeRequest": {
            "type": "object",
            "properties": {
                "projectId": {"type": "string"},
                "force": {"type": "boolean"},
                "async": {"type": "boolean"}
            }
        },
        "DimensionScore": {
            "type": "object",
            "properties": {
                "dimensionId": {"type": "string"},
                "dimensionName": {"type": "string"},
                "averageScore": {"type": "number"},
                "totalSubmissions": {"type": "integer"},
                "maxScore": {"type": "number"},
                "qualitativeScore": {"type": "string"},
                "qualitativeCode": {"type": "string"}
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
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"type": "object"},
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
