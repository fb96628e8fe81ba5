package viz

import (
	"bytes"
	"fmt"
	"html/template"
)

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate *template.Template

func init() {
	compiledTemplate = template.Must(template.New("viz").Parse(htmlTemplate))
}

// HTMLOptions configures HTML generation.
type HTMLOptions struct {
	Layout string // "force", "circle", or "grid"
	Title  string // page title; defaults to "Collaborator Graph"
}

// DefaultOptions returns default HTML generation options.
func DefaultOptions() HTMLOptions {
	return HTMLOptions{
		Layout: "force",
	}
}

// ValidLayouts lists the supported layout algorithm names.
var ValidLayouts = []string{"force", "circle", "grid"}

// GenerateHTML generates a self-contained HTML file for the graph visualization.
func GenerateHTML(graph *GraphData, opts HTMLOptions) (string, error) {
	if graph == nil {
		return "", fmt.Errorf("graph cannot be nil")
	}

	if err := ValidateLayout(opts.Layout); err != nil {
		return "", err
	}

	if graph.IsEmpty() {
		return generateEmptyHTML(), nil
	}

	graphJSON, err := graph.ToCytoscapeJSON()
	if err != nil {
		return "", err
	}

	title := opts.Title
	if title == "" {
		title = "Collaborator Graph"
	}

	data := templateData{
		Title:     title,
		GraphJSON: template.JS(graphJSON),
		Layout:    layoutToCytoscape(opts.Layout),
	}

	var buf bytes.Buffer
	if err := compiledTemplate.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// ValidateLayout checks if the layout option is valid.
func ValidateLayout(layout string) error {
	switch layout {
	case "", "force", "circle", "grid":
		return nil
	default:
		return fmt.Errorf("invalid layout %q: must be force, circle, or grid", layout)
	}
}

// templateData holds data for the HTML template.
type templateData struct {
	Title     string
	GraphJSON template.JS
	Layout    string
}

// layoutToCytoscape converts user-friendly layout names to Cytoscape.js layout algorithm names.
func layoutToCytoscape(layout string) string {
	switch layout {
	case "circle":
		return "circle"
	case "grid":
		return "grid"
	case "", "force":
		return "cose"
	default:
		return "cose"
	}
}

// generateEmptyHTML returns HTML for an empty graph state.
func generateEmptyHTML() string {
	return `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Collaborator Graph - Empty</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      display: flex;
      justify-content: center;
      align-items: center;
      height: 100vh;
      margin: 0;
      background: #f5f5f5;
    }
    .empty-state {
      text-align: center;
      color: #666;
    }
    .empty-state h2 {
      margin-bottom: 0.5em;
      color: #333;
    }
    .empty-state p {
      margin: 0.5em 0;
    }
    .empty-state code {
      background: #e0e0e0;
      padding: 2px 6px;
      border-radius: 3px;
    }
  </style>
</head>
<body>
  <div class="empty-state">
    <h2>No graph data</h2>
    <p>Neither subject has been resolved yet.</p>
    <p>Run <code>xcite graph &lt;author A&gt; &lt;author B&gt;</code></p>
  </div>
</body>
</html>`
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <script src="https://unpkg.com/cytoscape@3/dist/cytoscape.min.js"></script>
  <style>
    * {
      box-sizing: border-box;
    }
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 0;
      padding: 0;
      background: #f5f5f5;
    }
    #cy {
      width: 100%;
      height: 100vh;
      background: white;
    }
    /* Tooltip container */
    #tooltip {
      position: absolute;
      display: none;
      background: white;
      border: 1px solid #ccc;
      border-radius: 4px;
      padding: 8px 12px;
      box-shadow: 0 2px 8px rgba(0,0,0,0.15);
      max-width: 300px;
      font-size: 13px;
      z-index: 1000;
      pointer-events: none;
    }
    #tooltip .type {
      font-size: 10px;
      text-transform: uppercase;
      color: #888;
      margin-bottom: 4px;
    }
    #tooltip .label {
      font-weight: bold;
      margin-bottom: 4px;
    }
    #tooltip .detail {
      color: #555;
      margin: 2px 0;
    }
    #tooltip .summary {
      font-style: italic;
      color: #666;
      margin-top: 4px;
    }
  </style>
</head>
<body>
  <div id="cy"></div>
  <div id="tooltip"></div>
  <script>
    (function() {
      const graphData = {{.GraphJSON}};
      const layout = "{{.Layout}}";

      // Initialize Cytoscape
      const cy = cytoscape({
        container: document.getElementById('cy'),
        elements: graphData,
        style: [
          // Subjects - large, labelled
          {
            selector: 'node[group="subjectA"]',
            style: {
              'background-color': '#4A90D9',
              'label': 'data(label)',
              'color': '#333',
              'font-size': '12px',
              'font-weight': 'bold',
              'text-valign': 'bottom',
              'text-margin-y': '5px',
              'width': 'data(size)',
              'height': 'data(size)'
            }
          },
          {
            selector: 'node[group="subjectB"]',
            style: {
              'background-color': '#E8923A',
              'label': 'data(label)',
              'color': '#333',
              'font-size': '12px',
              'font-weight': 'bold',
              'text-valign': 'bottom',
              'text-margin-y': '5px',
              'width': 'data(size)',
              'height': 'data(size)'
            }
          },
          // Collaborators of one subject - lighter tint of that subject
          {
            selector: 'node[group="collaboratorA"]',
            style: {
              'background-color': '#A9C8EC',
              'label': 'data(label)',
              'color': '#555',
              'font-size': '9px',
              'text-valign': 'bottom',
              'text-margin-y': '3px',
              'width': 'data(size)',
              'height': 'data(size)'
            }
          },
          {
            selector: 'node[group="collaboratorB"]',
            style: {
              'background-color': '#F4C79A',
              'label': 'data(label)',
              'color': '#555',
              'font-size': '9px',
              'text-valign': 'bottom',
              'text-margin-y': '3px',
              'width': 'data(size)',
              'height': 'data(size)'
            }
          },
          // Collaborators of both subjects - green diamonds
          {
            selector: 'node[group="shared"]',
            style: {
              'background-color': '#27AE60',
              'shape': 'diamond',
              'label': 'data(label)',
              'color': '#333',
              'font-size': '10px',
              'text-valign': 'bottom',
              'text-margin-y': '4px',
              'width': 'data(size)',
              'height': 'data(size)'
            }
          },
          {
            selector: 'edge[kind="coauthor"]',
            style: {
              'line-color': '#C0392B',
              'line-style': 'dashed',
              'label': 'data(count)',
              'font-size': '10px',
              'curve-style': 'bezier',
              'width': 'data(weight)'
            }
          },
          {
            selector: 'edge',
            style: {
              'line-color': '#95A5A6',
              'curve-style': 'bezier',
              'width': 'data(weight)'
            }
          },
          // Highlighted state
          {
            selector: 'node.highlighted',
            style: {
              'border-width': 3,
              'border-color': '#ff6b6b'
            }
          },
          {
            selector: 'node.dimmed',
            style: {
              'opacity': 0.3
            }
          },
          {
            selector: 'edge.dimmed',
            style: {
              'opacity': 0.2
            }
          }
        ],
        layout: {
          name: layout,
          animate: false,
          // cose-specific options
          nodeRepulsion: 8000,
          idealEdgeLength: 100,
          edgeElasticity: 100
        }
      });

      // Tooltip handling
      const tooltip = document.getElementById('tooltip');

      function showTooltip(evt, content) {
        tooltip.innerHTML = content;
        tooltip.style.display = 'block';
        const pos = evt.renderedPosition || evt.position;
        tooltip.style.left = (pos.x + 15) + 'px';
        tooltip.style.top = (pos.y + 15) + 'px';
      }

      function hideTooltip() {
        tooltip.style.display = 'none';
      }

      // Build tooltip content for nodes
      function getNodeTooltip(node) {
        const data = node.data();
        let html = '<div class="type">' + data.group + '</div>';
        html += '<div class="label">' + escapeHtml(data.label) + '</div>';
        if (data.institution) html += '<div class="detail">' + escapeHtml(data.institution) + '</div>';
        if (data.countA) html += '<div class="detail">Works with A: ' + data.countA + '</div>';
        if (data.countB) html += '<div class="detail">Works with B: ' + data.countB + '</div>';
        return html;
      }

      // Build tooltip content for edges
      function getEdgeTooltip(edge) {
        const data = edge.data();
        let html = '<div class="type">' + data.kind + '</div>';
        html += '<div class="summary">' + data.count + ' shared works</div>';
        return html;
      }

      function escapeHtml(str) {
        if (!str) return '';
        return str.replace(/&/g, '&amp;')
                  .replace(/</g, '&lt;')
                  .replace(/>/g, '&gt;')
                  .replace(/"/g, '&quot;');
      }

      // Event handlers
      cy.on('mouseover', 'node', function(evt) {
        showTooltip(evt, getNodeTooltip(evt.target));
      });

      cy.on('mouseout', 'node', function() {
        hideTooltip();
      });

      cy.on('mouseover', 'edge', function(evt) {
        showTooltip(evt, getEdgeTooltip(evt.target));
      });

      cy.on('mouseout', 'edge', function() {
        hideTooltip();
      });

      // Click highlighting
      cy.on('tap', 'node', function(evt) {
        const node = evt.target;

        // Reset all
        cy.elements().removeClass('highlighted dimmed');

        // Get connected elements
        const neighborhood = node.neighborhood().add(node);

        // Highlight connected, dim others
        neighborhood.addClass('highlighted');
        cy.elements().not(neighborhood).addClass('dimmed');
      });

      // Click on empty space to reset
      cy.on('tap', function(evt) {
        if (evt.target === cy) {
          cy.elements().removeClass('highlighted dimmed');
        }
      });
    })();
  </script>
</body>
</html>`
