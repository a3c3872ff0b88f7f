package htmlgen

// articleTemplate is the newspaper layout: masthead, article header with
// byline and date, the analysis body, a key-insights box, an optional hero
// image and a footer.
const articleTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{title}}</title>
<style>
* {
    margin: 0;
    padding: 0;
    box-sizing: border-box;
}

body {
    font-family: 'Times New Roman', Times, serif;
    line-height: 1.6;
    color: #333;
    background-color: #f8f9fa;
}

.newspaper {
    max-width: 900px;
    margin: 20px auto;
    background: white;
    box-shadow: 0 0 20px rgba(0,0,0,0.1);
    border-radius: 8px;
    overflow: hidden;
}

.masthead {
    background: linear-gradient(135deg, #1e3c72 0%, #2a5298 100%);
    color: white;
    text-align: center;
    padding: 30px 20px;
    border-bottom: 3px solid #154a80;
}

.masthead h1 {
    font-size: 2.5rem;
    font-weight: bold;
    letter-spacing: 2px;
    margin-bottom: 10px;
    text-shadow: 2px 2px 4px rgba(0,0,0,0.3);
}

.masthead .tagline {
    font-size: 1rem;
    opacity: 0.9;
    font-style: italic;
}

.article-header {
    background: #f1f3f4;
    padding: 30px;
    border-bottom: 1px solid #e0e0e0;
}

.article-title {
    font-size: 2.2rem;
    font-weight: bold;
    color: #1e3c72;
    margin-bottom: 15px;
    line-height: 1.3;
}

.article-summary {
    font-size: 1.2rem;
    color: #555;
    font-weight: 500;
    background: #e8f4fd;
    padding: 20px;
    border-left: 4px solid #2a5298;
    border-radius: 0 5px 5px 0;
    margin-bottom: 20px;
}

.byline {
    font-size: 0.9rem;
    color: #666;
    margin-bottom: 10px;
}

.date {
    font-size: 0.9rem;
    color: #888;
}

.hero-image {
    width: 100%;
    display: block;
}

.article-content {
    padding: 30px;
}

.content-section {
    margin-bottom: 30px;
}

.content-section h2 {
    font-size: 1.5rem;
    color: #1e3c72;
    margin-bottom: 15px;
    border-bottom: 2px solid #e0e0e0;
    padding-bottom: 5px;
}

.content-section p {
    margin-bottom: 15px;
    text-align: justify;
    font-size: 1rem;
    line-height: 1.7;
}

.key-points {
    background: #f8f9fa;
    border: 1px solid #e0e0e0;
    border-radius: 8px;
    padding: 25px;
    margin: 25px 0;
}

.key-points h3 {
    font-size: 1.3rem;
    color: #1e3c72;
    margin-bottom: 15px;
}

.key-points ul {
    list-style: none;
    margin-left: 0;
}

.key-points li {
    margin-bottom: 10px;
    padding-left: 25px;
    position: relative;
    font-size: 1rem;
}

.key-points li::before {
    content: "\25B6";
    color: #2a5298;
    font-weight: bold;
    position: absolute;
    left: 0;
}

.footer {
    background: #f1f3f4;
    padding: 20px 30px;
    border-top: 1px solid #e0e0e0;
    text-align: center;
    color: #666;
    font-size: 0.9rem;
}

.powered-by {
    margin-top: 10px;
    font-style: italic;
}

@media (max-width: 768px) {
    .newspaper {
        margin: 10px;
        border-radius: 0;
    }

    .masthead h1 {
        font-size: 2rem;
    }

    .article-title {
        font-size: 1.8rem;
    }

    .article-header, .article-content {
        padding: 20px;
    }
}
</style>
</head>
<body>
<div class="newspaper">
    <header class="masthead">
        <h1>AI Research Herald</h1>
        <div class="tagline">Intelligent Insights &bull; Comprehensive Analysis &bull; Future Forward</div>
    </header>

    <div class="article-header">
        <h1 class="article-title">{{title}}</h1>
        <div class="article-summary">{{short_summary}}</div>
        <div class="byline">By AI Research Agent</div>
        <div class="date">{{date}}</div>
    </div>
{{#if image_path}}
    <img class="hero-image" src="{{image_path}}" alt="{{title}}">
{{/if}}

    <main class="article-content">
        <div class="content-section">
            <h2>Comprehensive Analysis</h2>
            {{paragraphs research_content}}
        </div>

        <div class="key-points">
            <h3>Key Insights</h3>
            <ul>
                {{listItems key_points}}
            </ul>
        </div>
    </main>

    <footer class="footer">
        <div>&copy; {{year}} AI Research Herald. All rights reserved.</div>
        <div class="powered-by">Powered by Azure OpenAI</div>
    </footer>
</div>
</body>
</html>
`
