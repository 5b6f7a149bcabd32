package converter

// layoutStylesheet is embedded into every generated document so the
// split-pane layout renders standalone in the downstream editor.
const layoutStylesheet = `.page {
  position: relative;
  width: 210mm;
  min-height: 297mm;
  margin: 0 auto 8mm auto;
  padding: 10mm;
  box-sizing: border-box;
  background: #fff;
}
.page.front-matter, .page.back-matter {
  background: #f7f7f7;
}
.split-pane {
  display: flex;
  width: 100%;
  height: 100%;
}
.split-pane.horizontal-percent {
  flex-direction: column;
}
.split-pane.vertical-percent {
  flex-direction: row;
}
.split-pane-component {
  flex: 1 1 0;
  min-width: 0;
  min-height: 0;
  overflow: hidden;
}
.split-pane-divider {
  flex: 0 0 auto;
  background: #d0d0d0;
}
.split-pane-divider.horizontal-divider {
  height: 2px;
}
.split-pane-divider.vertical-divider {
  width: 2px;
}
.translation-group {
  padding: 2mm;
}
.image-container {
  text-align: center;
}
.image-container img {
  max-width: 100%;
  max-height: 100%;
}
`
