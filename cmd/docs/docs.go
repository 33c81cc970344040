// Package docs registers the OpenAPI description served under /swagger.
// Paths and definitions mirror the handler annotations; regenerate them with swag init.
package docs

import "github.com/swaggo/swag"

//go:generate swag init -g ../ledger_backend/main.go -o . --parseInternal

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
        "/tenants/{tenant_id}/accounts": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "Create a GL account",
                "description": "Adds an account with a zero balance to the tenant's chart of accounts",
                "tags": [
                    "accounts"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Tenant ID",
                        "name": "tenant_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Account details",
                        "name": "account",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.CreateAccountRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.AccountResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid input format or validation error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "409": {
                        "description": "Account code already exists",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            },
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "List accounts",
                "description": "Lists the tenant's accounts ordered by code",
                "tags": [
                    "accounts"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Tenant ID",
                        "name": "tenant_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Page size",
                        "name": "limit",
                        "in": "query",
                        "type": "integer",
                        "default": 100
                    },
                    {
                        "description": "Offset",
                        "name": "offset",
                        "in": "query",
                        "type": "integer",
                        "default": 0
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ListAccountsResponse"
                        }
                    }
                }
            }
        },
        "/tenants/{tenant_id}/accounts/audit": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "Audit cached balances",
                "description": "Recomputes every balance from posted lines and lists accounts that diverge. Nothing is repaired.",
                "tags": [
                    "accounts"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Tenant ID",
                        "name": "tenant_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.BalanceAuditResponse"
                        }
                    }
                }
            }
        },
        "/tenants/{tenant_id}/accounts/{code}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "Get an account by code",
                "tags": [
                    "accounts"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Tenant ID",
                        "name": "tenant_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Account code",
                        "name": "code",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.AccountResponse"
                        }
                    },
                    "404": {
                        "description": "Account not found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            },
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "Delete an account",
                "description": "Removes an account that no journal line references",
                "tags": [
                    "accounts"
                ],
                "parameters": [
                    {
                        "description": "Tenant ID",
                        "name": "tenant_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Account code",
                        "name": "code",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "404": {
                        "description": "Account not found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "409": {
                        "description": "Account is referenced by journal lines",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/tenants/{tenant_id}/balance-sheet": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "Current balance sheet",
                "description": "Running balances of asset, liability and equity accounts plus unclosed earnings",
                "tags": [
                    "reports"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Tenant ID",
                        "name": "tenant_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.BalanceSheetResponse"
                        }
                    },
                    "500": {
                        "description": "Failed to generate report",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/tenants/{tenant_id}/bank-transactions": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "Import a bank statement line",
                "description": "Amounts are signed: deposits positive, withdrawals negative",
                "tags": [
                    "bank"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Tenant ID",
                        "name": "tenant_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Statement line",
                        "name": "transaction",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.RecordBankTransactionRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.BankTransactionResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid statement line",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "404": {
                        "description": "Unknown account",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/tenants/{tenant_id}/bank-transactions/{bank_transaction_id}/reconcile": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "Mark a bank statement line reconciled",
                "tags": [
                    "bank"
                ],
                "parameters": [
                    {
                        "description": "Tenant ID",
                        "name": "tenant_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Bank transaction ID",
                        "name": "bank_transaction_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "404": {
                        "description": "Bank transaction not found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/tenants/{tenant_id}/documents/ap-invoices": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "Post a purchase invoice",
                "description": "Debits each expense line and input tax and credits the payable for the gross total",
                "tags": [
                    "documents"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Tenant ID",
                        "name": "tenant_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Invoice",
                        "name": "invoice",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.InvoiceRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.DocumentResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid invoice",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "409": {
                        "description": "No open period for the invoice date",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/tenants/{tenant_id}/documents/ar-invoices": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "Post a sales invoice",
                "description": "Debits the receivable for the gross total and credits each revenue line and output tax",
                "tags": [
                    "documents"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Tenant ID",
                        "name": "tenant_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Invoice",
                        "name": "invoice",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.InvoiceRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.DocumentResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid invoice",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "409": {
                        "description": "No open period for the invoice date",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/tenants/{tenant_id}/documents/incoming-payments": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "Record a customer payment",
                "tags": [
                    "documents"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Tenant ID",
                        "name": "tenant_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Payment",
                        "name": "payment",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.PaymentRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.DocumentResponse"
                        }
                    },
                    "409": {
                        "description": "Payment exceeds the outstanding amount",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/tenants/{tenant_id}/documents/outgoing-payments": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "Record a supplier payment",
                "tags": [
                    "documents"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Tenant ID",
                        "name": "tenant_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Payment",
                        "name": "payment",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.PaymentRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.DocumentResponse"
                        }
                    },
                    "409": {
                        "description": "Payment exceeds the outstanding amount",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/tenants/{tenant_id}/journals": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "Post a journal entry",
                "description": "Validates and atomically posts a balanced entry, updating account balances",
                "tags": [
                    "journals"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Tenant ID",
                        "name": "tenant_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Entry header and lines",
                        "name": "entry",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.PostEntryRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.JournalResponse"
                        }
                    },
                    "400": {
                        "description": "Unbalanced entry or invalid lines",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "404": {
                        "description": "Unknown account",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "409": {
                        "description": "No open period for the posting date",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "503": {
                        "description": "Ledger busy, retry",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            },
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "List journal entries",
                "description": "Newest first by posting date, paginated with an opaque token",
                "tags": [
                    "journals"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Tenant ID",
                        "name": "tenant_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Page size",
                        "name": "limit",
                        "in": "query",
                        "type": "integer",
                        "default": 20
                    },
                    {
                        "description": "Token from the previous page",
                        "name": "nextToken",
                        "in": "query",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ListJournalsResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid pagination parameters",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/tenants/{tenant_id}/journals/drafts": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "Save a draft entry",
                "description": "Stores the entry without numbering it or touching balances",
                "tags": [
                    "journals"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Tenant ID",
                        "name": "tenant_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Entry header and lines",
                        "name": "entry",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.PostEntryRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.JournalResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid entry",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/tenants/{tenant_id}/journals/{entry_id}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "Get a journal entry with its lines",
                "tags": [
                    "journals"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Tenant ID",
                        "name": "tenant_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Entry ID",
                        "name": "entry_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.JournalResponse"
                        }
                    },
                    "404": {
                        "description": "Entry not found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            },
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "Delete a journal entry",
                "description": "Drafts are simply removed. Posted entries have their balance effects reverted first.",
                "tags": [
                    "journals"
                ],
                "parameters": [
                    {
                        "description": "Tenant ID",
                        "name": "tenant_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Entry ID",
                        "name": "entry_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "409": {
                        "description": "Entry's period is closed or it carries payments",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/tenants/{tenant_id}/journals/{entry_id}/post": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "Post a draft entry",
                "description": "Allocates the series number and applies balances. The caller is recorded as approver.",
                "tags": [
                    "journals"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Tenant ID",
                        "name": "tenant_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Entry ID",
                        "name": "entry_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.JournalResponse"
                        }
                    },
                    "409": {
                        "description": "Entry is not a draft",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/tenants/{tenant_id}/journals/{entry_id}/reverse": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "Reverse a posted entry",
                "description": "Posts the mirror image of the entry on the reversal date and marks the original REVERSED",
                "tags": [
                    "journals"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Tenant ID",
                        "name": "tenant_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Entry ID",
                        "name": "entry_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Reversal details",
                        "name": "reversal",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.ReverseEntryRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.JournalResponse"
                        }
                    },
                    "409": {
                        "description": "Entry not posted or reversal date outside an open period",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/tenants/{tenant_id}/periods": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "Open an accounting period",
                "description": "Creates an OPEN period. Ranges are inclusive and may not overlap existing periods.",
                "tags": [
                    "periods"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Tenant ID",
                        "name": "tenant_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Period details",
                        "name": "period",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.CreatePeriodRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.PeriodResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid range or overlapping period",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            },
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "List accounting periods",
                "tags": [
                    "periods"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Tenant ID",
                        "name": "tenant_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ListPeriodsResponse"
                        }
                    }
                }
            }
        },
        "/tenants/{tenant_id}/periods/{period_id}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "Get an accounting period",
                "tags": [
                    "periods"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Tenant ID",
                        "name": "tenant_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Period ID",
                        "name": "period_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.PeriodResponse"
                        }
                    },
                    "404": {
                        "description": "Period not found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            },
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "Rename or re-date an open period",
                "tags": [
                    "periods"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Tenant ID",
                        "name": "tenant_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Period ID",
                        "name": "period_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Fields to change",
                        "name": "period",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.UpdatePeriodRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.PeriodResponse"
                        }
                    },
                    "409": {
                        "description": "Period closed or entries would fall outside",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            },
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "Delete an empty period",
                "tags": [
                    "periods"
                ],
                "parameters": [
                    {
                        "description": "Tenant ID",
                        "name": "tenant_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Period ID",
                        "name": "period_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "409": {
                        "description": "Period has entries or is closed",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/tenants/{tenant_id}/periods/{period_id}/close": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "Close a period",
                "description": "Re-validates and closes the period atomically. Closing a closed period succeeds.",
                "tags": [
                    "periods"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Tenant ID",
                        "name": "tenant_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Period ID",
                        "name": "period_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.CloseResponse"
                        }
                    },
                    "409": {
                        "description": "Period cannot be closed",
                        "schema": {
                            "$ref": "#/definitions/dto.CloseResponse"
                        }
                    }
                }
            }
        },
        "/tenants/{tenant_id}/periods/{period_id}/profit-and-loss": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "Profit and loss of a period",
                "description": "Revenue and expense accounts netted over finalized entries dated inside the period",
                "tags": [
                    "reports"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Tenant ID",
                        "name": "tenant_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Period ID",
                        "name": "period_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ProfitAndLossResponse"
                        }
                    },
                    "404": {
                        "description": "Period not found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "500": {
                        "description": "Failed to generate report",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/tenants/{tenant_id}/periods/{period_id}/trial-balance": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "Trial balance of a period",
                "description": "Per-account debits, credits and net movement of finalized entries dated inside the period",
                "tags": [
                    "reports"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Tenant ID",
                        "name": "tenant_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Period ID",
                        "name": "period_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.TrialBalanceResponse"
                        }
                    },
                    "404": {
                        "description": "Period not found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "500": {
                        "description": "Failed to generate report",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/tenants/{tenant_id}/periods/{period_id}/validation": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "Preview a period close",
                "description": "Runs the close validations without changing anything. Errors block the close, warnings do not.",
                "tags": [
                    "periods"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Tenant ID",
                        "name": "tenant_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Period ID",
                        "name": "period_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/domain.PeriodValidation"
                        }
                    },
                    "404": {
                        "description": "Period not found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "domain.BalanceMismatch": {
            "type": "object",
            "properties": {
                "accountID": {
                    "type": "string"
                },
                "code": {
                    "type": "string"
                },
                "cachedBalance": {
                    "type": "string",
                    "example": "0.00"
                },
                "computedBalance": {
                    "type": "string",
                    "example": "0.00"
                }
            }
        },
        "domain.PeriodValidation": {
            "type": "object",
            "properties": {
                "periodID": {
                    "type": "string"
                },
                "status": {
                    "type": "string"
                },
                "isValid": {
                    "type": "boolean"
                },
                "canClose": {
                    "type": "boolean"
                },
                "errors": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "warnings": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "dto.AccountAmountResponse": {
            "type": "object",
            "properties": {
                "accountID": {
                    "type": "string"
                },
                "code": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "netAmount": {
                    "type": "string",
                    "example": "0.00"
                }
            }
        },
        "dto.AccountResponse": {
            "type": "object",
            "properties": {
                "accountID": {
                    "type": "string"
                },
                "code": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "accountType": {
                    "type": "string"
                },
                "balance": {
                    "type": "string",
                    "example": "0.00"
                },
                "createdAt": {
                    "type": "string",
                    "format": "date-time"
                },
                "createdBy": {
                    "type": "string"
                }
            }
        },
        "dto.BalanceAuditResponse": {
            "type": "object",
            "properties": {
                "consistent": {
                    "type": "boolean"
                },
                "mismatches": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.BalanceMismatch"
                    }
                }
            }
        },
        "dto.BalanceSheetResponse": {
            "type": "object",
            "properties": {
                "assets": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.AccountAmountResponse"
                    }
                },
                "liabilities": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.AccountAmountResponse"
                    }
                },
                "equity": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.AccountAmountResponse"
                    }
                },
                "totalAssets": {
                    "type": "string",
                    "example": "0.00"
                },
                "totalLiabilities": {
                    "type": "string",
                    "example": "0.00"
                },
                "totalEquity": {
                    "type": "string",
                    "example": "0.00"
                },
                "currentEarnings": {
                    "type": "string",
                    "example": "0.00"
                },
                "balanced": {
                    "type": "boolean"
                }
            }
        },
        "dto.BankTransactionResponse": {
            "type": "object",
            "properties": {
                "bankTransactionID": {
                    "type": "string"
                },
                "accountCode": {
                    "type": "string"
                },
                "transactionDate": {
                    "type": "string"
                },
                "amount": {
                    "type": "string",
                    "example": "0.00"
                },
                "reference": {
                    "type": "string"
                },
                "reconciled": {
                    "type": "boolean"
                }
            }
        },
        "dto.CloseResponse": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "message": {
                    "type": "string"
                },
                "error": {
                    "type": "string"
                }
            }
        },
        "dto.CreateAccountRequest": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "accountType": {
                    "type": "string"
                }
            },
            "required": [
                "code",
                "name",
                "accountType"
            ]
        },
        "dto.CreatePeriodRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "startDate": {
                    "type": "string"
                },
                "endDate": {
                    "type": "string"
                }
            },
            "required": [
                "name",
                "startDate",
                "endDate"
            ]
        },
        "dto.DocumentResponse": {
            "type": "object",
            "properties": {
                "documentID": {
                    "type": "string"
                },
                "docType": {
                    "type": "string"
                },
                "counterparty": {
                    "type": "string"
                },
                "documentDate": {
                    "type": "string"
                },
                "total": {
                    "type": "string",
                    "example": "0.00"
                },
                "paidAmount": {
                    "type": "string",
                    "example": "0.00"
                },
                "appliesTo": {
                    "type": "string"
                },
                "entry": {
                    "$ref": "#/definitions/dto.JournalResponse"
                }
            }
        },
        "dto.InvoiceLineRequest": {
            "type": "object",
            "properties": {
                "accountCode": {
                    "type": "string"
                },
                "amount": {
                    "type": "string",
                    "example": "0.00"
                },
                "memo": {
                    "type": "string"
                }
            },
            "required": [
                "accountCode"
            ]
        },
        "dto.InvoiceRequest": {
            "type": "object",
            "properties": {
                "counterparty": {
                    "type": "string"
                },
                "invoiceDate": {
                    "type": "string"
                },
                "controlAccountCode": {
                    "type": "string"
                },
                "taxAccountCode": {
                    "type": "string"
                },
                "taxAmount": {
                    "type": "string",
                    "example": "0.00"
                },
                "remarks": {
                    "type": "string"
                },
                "lines": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.InvoiceLineRequest"
                    }
                }
            },
            "required": [
                "counterparty",
                "invoiceDate",
                "controlAccountCode",
                "lines"
            ]
        },
        "dto.JournalResponse": {
            "type": "object",
            "properties": {
                "entryID": {
                    "type": "string"
                },
                "docType": {
                    "type": "string"
                },
                "docNumber": {
                    "type": "string"
                },
                "postingDate": {
                    "type": "string"
                },
                "remarks": {
                    "type": "string"
                },
                "author": {
                    "type": "string"
                },
                "approver": {
                    "type": "string"
                },
                "status": {
                    "type": "string"
                },
                "originalEntryID": {
                    "type": "string"
                },
                "reversingEntryID": {
                    "type": "string"
                },
                "totalDebit": {
                    "type": "string",
                    "example": "0.00"
                },
                "totalCredit": {
                    "type": "string",
                    "example": "0.00"
                },
                "lines": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.LineResponse"
                    }
                },
                "createdAt": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "dto.LineRequest": {
            "type": "object",
            "properties": {
                "accountCode": {
                    "type": "string"
                },
                "debit": {
                    "type": "string",
                    "example": "0.00"
                },
                "credit": {
                    "type": "string",
                    "example": "0.00"
                },
                "memo": {
                    "type": "string"
                }
            },
            "required": [
                "accountCode"
            ]
        },
        "dto.LineResponse": {
            "type": "object",
            "properties": {
                "lineNo": {
                    "type": "integer"
                },
                "accountCode": {
                    "type": "string"
                },
                "debit": {
                    "type": "string",
                    "example": "0.00"
                },
                "credit": {
                    "type": "string",
                    "example": "0.00"
                },
                "memo": {
                    "type": "string"
                }
            }
        },
        "dto.ListAccountsResponse": {
            "type": "object",
            "properties": {
                "accounts": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.AccountResponse"
                    }
                }
            }
        },
        "dto.ListJournalsResponse": {
            "type": "object",
            "properties": {
                "entries": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.JournalResponse"
                    }
                },
                "nextToken": {
                    "type": "string"
                }
            }
        },
        "dto.ListPeriodsResponse": {
            "type": "object",
            "properties": {
                "periods": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.PeriodResponse"
                    }
                }
            }
        },
        "dto.PaymentRequest": {
            "type": "object",
            "properties": {
                "invoiceID": {
                    "type": "string"
                },
                "paymentDate": {
                    "type": "string"
                },
                "cashAccountCode": {
                    "type": "string"
                },
                "amount": {
                    "type": "string",
                    "example": "0.00"
                },
                "remarks": {
                    "type": "string"
                }
            },
            "required": [
                "invoiceID",
                "paymentDate",
                "cashAccountCode"
            ]
        },
        "dto.PeriodResponse": {
            "type": "object",
            "properties": {
                "periodID": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "startDate": {
                    "type": "string"
                },
                "endDate": {
                    "type": "string"
                },
                "status": {
                    "type": "string"
                },
                "closedAt": {
                    "type": "string",
                    "format": "date-time"
                },
                "closedBy": {
                    "type": "string"
                },
                "createdAt": {
                    "type": "string",
                    "format": "date-time"
                },
                "createdBy": {
                    "type": "string"
                }
            }
        },
        "dto.PostEntryRequest": {
            "type": "object",
            "properties": {
                "postingDate": {
                    "type": "string"
                },
                "remarks": {
                    "type": "string"
                },
                "lines": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.LineRequest"
                    }
                }
            },
            "required": [
                "postingDate"
            ]
        },
        "dto.ProfitAndLossResponse": {
            "type": "object",
            "properties": {
                "periodID": {
                    "type": "string"
                },
                "periodName": {
                    "type": "string"
                },
                "startDate": {
                    "type": "string"
                },
                "endDate": {
                    "type": "string"
                },
                "revenue": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.AccountAmountResponse"
                    }
                },
                "expenses": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.AccountAmountResponse"
                    }
                },
                "totalRevenue": {
                    "type": "string",
                    "example": "0.00"
                },
                "totalExpenses": {
                    "type": "string",
                    "example": "0.00"
                },
                "netProfit": {
                    "type": "string",
                    "example": "0.00"
                }
            }
        },
        "dto.RecordBankTransactionRequest": {
            "type": "object",
            "properties": {
                "accountCode": {
                    "type": "string"
                },
                "transactionDate": {
                    "type": "string"
                },
                "amount": {
                    "type": "string",
                    "example": "0.00"
                },
                "reference": {
                    "type": "string"
                }
            },
            "required": [
                "accountCode",
                "transactionDate"
            ]
        },
        "dto.ReverseEntryRequest": {
            "type": "object",
            "properties": {
                "reversalDate": {
                    "type": "string"
                },
                "remarks": {
                    "type": "string"
                }
            },
            "required": [
                "reversalDate"
            ]
        },
        "dto.TrialBalanceResponse": {
            "type": "object",
            "properties": {
                "periodID": {
                    "type": "string"
                },
                "periodName": {
                    "type": "string"
                },
                "startDate": {
                    "type": "string"
                },
                "endDate": {
                    "type": "string"
                },
                "status": {
                    "type": "string"
                },
                "rows": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.TrialBalanceRowResponse"
                    }
                },
                "entryCount": {
                    "type": "integer"
                },
                "totals": {
                    "type": "object",
                    "properties": {
                        "debit": {
                            "type": "string",
                            "example": "0.00"
                        },
                        "credit": {
                            "type": "string",
                            "example": "0.00"
                        }
                    }
                },
                "balanced": {
                    "type": "boolean"
                }
            }
        },
        "dto.TrialBalanceRowResponse": {
            "type": "object",
            "properties": {
                "accountID": {
                    "type": "string"
                },
                "code": {
                    "type": "string"
                },
                "accountName": {
                    "type": "string"
                },
                "accountType": {
                    "type": "string"
                },
                "debit": {
                    "type": "string",
                    "example": "0.00"
                },
                "credit": {
                    "type": "string",
                    "example": "0.00"
                },
                "net": {
                    "type": "string",
                    "example": "0.00"
                }
            }
        },
        "dto.UpdatePeriodRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "startDate": {
                    "type": "string"
                },
                "endDate": {
                    "type": "string"
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "security": [
        {
            "BearerAuth": []
        }
    ]
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Restaurant Ledger API",
	Description:      "Double-entry journal posting and period close for restaurant back offices.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
