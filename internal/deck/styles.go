package deck

// StylesCSS returns the fixed stylesheet written next to the generated
// documents. It is regenerated on every build so local edits do not drift
// from the deck.
func StylesCSS() string {
	return `.reveal,
.reveal h1,
.reveal h2,
.reveal h3,
.reveal p,
.reveal li,
.reveal .slides {
    font-family: Arial, sans-serif !important;
}

/* Vertically center slide content when space allows */
.reveal .slides section {
    display: flex !important;
    flex-direction: column;
    justify-content: center;
}

/* Smaller headlines */
.reveal h1 {
    font-size: 1.4em;
    margin-bottom: 0.3em;
}

.reveal h2 {
    font-size: 1.1em;
    margin-bottom: 0.2em;
}

/* Center all images */
.reveal img {
    max-height: 65vh;
    width: auto;
    display: block;
    margin: 0 auto;
}

.reveal figure {
    margin: 0 auto;
}

/* Figure captions */
.reveal .caption {
    font-size: 0.3em;
    color: #333;
    text-align: left;
    margin-top: 0.5em;
    max-width: 95%;
    margin-left: auto;
    margin-right: auto;
    line-height: 1.3;
}

/* Scrollable table of contents */
.reveal .slide-menu-wrapper {
    overflow-y: auto;
}

#TOC {
    max-height: 80vh;
    overflow-y: auto;
}
`
}
