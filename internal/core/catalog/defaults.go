package catalog

import "github.com/custodia-labs/readme-agent/internal/core/domain"

// Technology names referenced by the archetype rules.
const (
	FastAPI    = "FastAPI"
	Django     = "Django"
	Flask      = "Flask"
	Streamlit  = "Streamlit"
	LangChain  = "LangChain"
	Gradio     = "Gradio"
	React      = "React"
	Vue        = "Vue.js"
	Angular    = "Angular"
	Express    = "Express.js"
	NextJS     = "Next.js"
	TensorFlow = "TensorFlow"
	PyTorch    = "PyTorch"
	Pandas     = "Pandas"
	NumPy      = "NumPy"
)

// DefaultOptions returns the built-in recognition tables.
// Each call returns fresh values that the caller may modify.
func DefaultOptions() Options {
	return Options{
		Languages: map[string]string{
			".py":    "Python",
			".js":    "JavaScript",
			".ts":    "TypeScript",
			".java":  "Java",
			".cpp":   "C++",
			".c":     "C",
			".cs":    "C#",
			".go":    "Go",
			".rs":    "Rust",
			".php":   "PHP",
			".rb":    "Ruby",
			".swift": "Swift",
			".kt":    "Kotlin",
			".scala": "Scala",
			".html":  "HTML",
			".css":   "CSS",
			".scss":  "SCSS",
			".sass":  "Sass",
		},
		Labels: map[string]string{
			"TypeScript": "javascript",
			"C++":        "cpp",
			"C#":         "csharp",
		},
		Technologies: []TechnologySpec{
			{FastAPI, []string{`from\s+fastapi\s+import`, `import\s+fastapi`, `FastAPI\s*\(`, `@app\.(get|post|put|delete)`, `uvicorn\.run`}},
			{Django, []string{`from\s+django`, `import\s+django`, `DJANGO_SETTINGS_MODULE`, `django\.conf`, `manage\.py`}},
			{Flask, []string{`from\s+flask\s+import`, `import\s+flask`, `Flask\s*\(`, `@app\.route`, `flask\.Flask`}},
			{Streamlit, []string{`import\s+streamlit`, `streamlit\.`, `st\.`, `streamlit\s+run`}},
			{LangChain, []string{`from\s+langchain`, `import\s+langchain`, `langchain\.`, `ChatOpenAI`, `LLMChain`, `VectorStore`, `Document\s*\(`, `PromptTemplate`}},
			{Gradio, []string{`import\s+gradio`, `gradio\.`, `gr\.`, `gradio\.Interface`}},
			{React, []string{`import.*react`, `from\s+["']react["']`, `React\.`, `useState`, `useEffect`}},
			{Vue, []string{`import.*vue`, `from\s+["']vue["']`, `Vue\.`, `createApp`}},
			{Angular, []string{`@angular/`, `import.*@angular`, `@Component`, `@Injectable`}},
			{Express, []string{`import.*express`, `require\(["']express["']\)`, `express\(\)`, `app\.listen`}},
			{NextJS, []string{`next/`, `import.*next`, `getStaticProps`, `getServerSideProps`}},
			{TensorFlow, []string{`import\s+tensorflow`, `tensorflow\.`, `tf\.`, `keras\.`}},
			{PyTorch, []string{`import\s+torch`, `torch\.`, `torchvision\.`, `nn\.Module`}},
			{Pandas, []string{`import\s+pandas`, `pandas\.`, `pd\.`, `DataFrame`}},
			{NumPy, []string{`import\s+numpy`, `numpy\.`, `np\.`, `ndarray`}},
		},
		Important: []string{
			"package.json", "requirements.txt", "Cargo.toml", "go.mod",
			"pom.xml", "build.gradle", "composer.json", "Gemfile",
			"setup.py", "pyproject.toml", "CMakeLists.txt", "Makefile",
		},
		Config: []string{
			".env.example", "config.yaml", "config.json", "docker-compose.yml",
			"Dockerfile", ".gitignore", "tsconfig.json", "webpack.config.js",
		},
		DocIndicators:  []string{"readme", "doc", "wiki"},
		TestIndicators: []string{"test", "spec"},
		Rules: []ArchetypeRule{
			{Type: domain.ProjectTypeWeb, Technologies: []string{FastAPI, Django, Flask, Express, React, Vue, Angular, NextJS}},
			{Type: domain.ProjectTypeGUI, Technologies: []string{Streamlit, Gradio}},
			{Type: domain.ProjectTypeMachineLearning, Technologies: []string{TensorFlow, PyTorch, LangChain}},
			{Type: domain.ProjectTypeDataAnalysis, Technologies: []string{Pandas, NumPy}, Language: "Python"},
		},
	}
}
