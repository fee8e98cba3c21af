package config

// Schema is the JSON schema for validating configuration files
const Schema = `{
    "$schema": "http://json-schema.org/draft-07/schema#",
    "type": "object",
    "properties": {
        "log_level": {
            "type": "string",
            "enum": ["debug", "info", "warn", "error"]
        },
        "log_format": {
            "type": "string",
            "enum": ["json", "console"]
        },
        "max_concurrent_uploads": {
            "type": "integer",
            "minimum": 1
        },
        "max_upload_bytes": {
            "type": "integer",
            "minimum": 1
        },
        "retry": {
            "type": "object",
            "properties": {
                "max_attempts": {
                    "type": "integer",
                    "minimum": 1,
                    "maximum": 10
                },
                "initial_delay_ms": {
                    "type": "integer",
                    "minimum": 0
                },
                "max_delay_ms": {
                    "type": "integer",
                    "minimum": 0
                }
            },
            "additionalProperties": false
        },
        "server": {
            "type": "object",
            "properties": {
                "listen": {
                    "type": "string",
                    "minLength": 1
                }
            },
            "additionalProperties": false
        },
        "history": {
            "type": "object",
            "properties": {
                "dsn": {
                    "type": "string"
                }
            },
            "additionalProperties": false
        },
        "storage": {
            "type": "object",
            "properties": {
                "destinations": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "name": {
                                "type": "string",
                                "pattern": "^[a-zA-Z0-9_-]+$"
                            },
                            "type": {
                                "type": "string",
                                "enum": ["s3", "local", "backblaze", "ssh"]
                            },
                            "enabled": {
                                "type": "boolean"
                            },
                            "base_dir": {
                                "type": "string"
                            },
                            "options": {
                                "type": "object"
                            }
                        },
                        "required": ["name", "type"],
                        "allOf": [
                            {
                                "if": {"properties": {"type": {"const": "s3"}}},
                                "then": {
                                    "properties": {
                                        "options": {
                                            "properties": {
                                                "bucket": {"type": "string"},
                                                "region": {"type": "string"},
                                                "access_key_id": {"type": "string"},
                                                "secret_access_key": {"type": "string"},
                                                "endpoint": {"type": "string", "pattern": "^https?://"},
                                                "path_style": {"type": "boolean"},
                                                "public_base_url": {"type": "string"},
                                                "public_url_from_endpoint": {"type": "boolean"},
                                                "prefix": {"type": "string"},
                                                "profile": {"type": "string"}
                                            }
                                        }
                                    }
                                }
                            },
                            {
                                "if": {"properties": {"type": {"const": "local"}}},
                                "then": {
                                    "properties": {
                                        "options": {
                                            "properties": {
                                                "path": {"type": "string"},
                                                "public_base_url": {"type": "string"}
                                            }
                                        }
                                    }
                                }
                            },
                            {
                                "if": {"properties": {"type": {"const": "backblaze"}}},
                                "then": {
                                    "properties": {
                                        "options": {
                                            "required": ["account_id", "application_key", "bucket_name"]
                                        }
                                    }
                                }
                            },
                            {
                                "if": {"properties": {"type": {"const": "ssh"}}},
                                "then": {
                                    "properties": {
                                        "options": {
                                            "required": ["host", "user", "remote_path", "public_base_url"],
                                            "properties": {
                                                "port": {"type": "integer", "minimum": 1, "maximum": 65535}
                                            }
                                        }
                                    }
                                }
                            }
                        ]
                    }
                }
            }
        }
    }
}`
