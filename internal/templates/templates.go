// Package templates holds the starter file catalog applied when a project
// is created from a non-blank template.
package templates

import "codeforge/internal/models"

var catalog = map[string][]models.File{
	"nodejs": {
		{
			Name: "index.js",
			Path: "/index.js",
			Type: "file",
			Content: `const express = require('express');
const app = express();
const port = 3000;

app.get('/', (req, res) => {
  res.send('Hello World!');
});

app.listen(port, () => {
  console.log(` + "`Server running on port ${port}`" + `);
});`,
		},
		{
			Name: "package.json",
			Path: "/package.json",
			Type: "file",
			Content: `{
  "name": "nodejs-project",
  "version": "1.0.0",
  "description": "",
  "main": "index.js",
  "scripts": {
    "start": "node index.js"
  },
  "dependencies": {
    "express": "^4.18.0"
  }
}`,
		},
	},
	"react": {
		{
			Name: "index.html",
			Path: "/index.html",
			Type: "file",
			Content: `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>React App</title>
</head>
<body>
    <div id="root"></div>
    <script src="index.js"></script>
</body>
</html>`,
		},
		{
			Name: "index.js",
			Path: "/index.js",
			Type: "file",
			Content: `import React from 'react';
import ReactDOM from 'react-dom';

function App() {
  return (
    <div>
      <h1>Hello React!</h1>
    </div>
  );
}

ReactDOM.render(<App />, document.getElementById('root'));`,
		},
	},
}

// Files returns the starter files for a template, already bound to the
// project. Unknown templates (including "blank") scaffold nothing.
func Files(template string, projectID int) []models.File {
	entries := catalog[template]
	files := make([]models.File, 0, len(entries))
	for _, entry := range entries {
		entry.ProjectID = projectID
		files = append(files, entry)
	}
	return files
}
