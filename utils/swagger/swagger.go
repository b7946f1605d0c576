package swagger

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/swaggo/swag"
)

type SwaggerConfig struct {
	Title         string
	SwaggerDocURL string
	// TokenURL is the development token endpoint. The sign-in box is
	// omitted when it is empty.
	TokenURL string
}

const swaggerHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@4.15.5/swagger-ui.css" />
    <style>
        body { margin: 0; background: #fafafa; }
        .token-box { max-width: 1460px; margin: 12px auto; padding: 12px 20px; font-family: sans-serif; font-size: 13px; }
        .token-box input { padding: 6px 10px; width: 280px; border: 1px solid #d9d9d9; border-radius: 4px; }
        .token-box button { padding: 6px 14px; background: #4990e2; color: #fff; border: none; border-radius: 4px; cursor: pointer; }
        .token-box span { margin-left: 10px; color: #555; }
    </style>
</head>
<body>
    {{if .TokenURL}}
    <div class="token-box">
        <input type="email" id="token-email" placeholder="user email" />
        <button id="token-button" onclick="signIn()">Get token</button>
        <span id="token-status"></span>
    </div>
    {{end}}
    <div id="swagger-ui"></div>

    <script src="https://unpkg.com/swagger-ui-dist@4.15.5/swagger-ui-bundle.js" charset="UTF-8"></script>
    <script src="https://unpkg.com/swagger-ui-dist@4.15.5/swagger-ui-standalone-preset.js" charset="UTF-8"></script>
    <script>
        window.onload = function() {
            window.ui = SwaggerUIBundle({
                url: '{{.SwaggerDocURL}}',
                dom_id: '#swagger-ui',
                deepLinking: true,
                presets: [SwaggerUIBundle.presets.apis, SwaggerUIStandalonePreset],
                layout: "StandaloneLayout",
                docExpansion: "list",
                validatorUrl: null,
                persistAuthorization: true
            });
        };
        {{if .TokenURL}}
        async function signIn() {
            const status = document.getElementById('token-status');
            const email = document.getElementById('token-email').value.trim();
            if (!email) { status.textContent = 'email is required'; return; }
            try {
                const response = await fetch('{{.TokenURL}}', {
                    method: 'POST',
                    headers: { 'Content-Type': 'application/json' },
                    body: JSON.stringify({ email: email })
                });
                const body = await response.json();
                if (!response.ok) { throw new Error(body.message || 'request failed'); }
                window.ui.preauthorizeApiKey('BearerAuth', 'Bearer ' + body.data.access_token);
                status.textContent = 'signed in as ' + email;
            } catch (error) {
                status.textContent = 'sign-in failed: ' + error.message;
            }
        }
        {{end}}
    </script>
</body>
</html>`

var swaggerTemplate = template.Must(template.New("swagger").Parse(swaggerHTML))

// ServeSwaggerUI serves the Swagger UI page
func ServeSwaggerUI(config SwaggerConfig) gin.HandlerFunc {
	if config.Title == "" {
		config.Title = "API Documentation"
	}
	if config.SwaggerDocURL == "" {
		config.SwaggerDocURL = "/swagger/doc.json"
	}

	return func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		if err := swaggerTemplate.Execute(c.Writer, config); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render Swagger UI"})
		}
	}
}

// ServeDoc writes the swag registered document of the given instance
func ServeDoc(instanceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc(instanceName)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "API documentation is not registered"})
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
	}
}
