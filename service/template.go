package service

// certificateTemplate is the self-contained A4 certificate document. All
// assets (image, QR) are embedded as data URIs so the pinned copy renders
// anywhere without further network access.
const certificateTemplate = `<!DOCTYPE html>
<html lang="es">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Certificado {{.CertificateID}}</title>
    <link rel="preconnect" href="https://fonts.googleapis.com">
    <link rel="preconnect" href="https://fonts.gstatic.com" crossorigin>
    <link href="https://fonts.googleapis.com/css2?family=Baloo+Paaji+2:wght@400;500;600;700;800&display=swap" rel="stylesheet">
  <style>
    @page { size: A4; margin: 0; }
    * { margin: 0; padding: 0; box-sizing: border-box; }
    body {
      font-family: 'Baloo Paaji 2', cursive, sans-serif;
      background: #0a0a0a;
      color: #f8fafc;
      -webkit-print-color-adjust: exact;
      print-color-adjust: exact;
    }
    .certificate-container {
      position: relative;
      width: 210mm;
      min-height: 297mm;
      margin: 0 auto;
      padding: 20mm 15mm 10mm 15mm;
      background: linear-gradient(180deg, #0f0f0f 0%, #1a1a1a 50%, #0f0f0f 100%);
      border: 3px solid #C9A961;
      box-shadow: inset 0 0 100px rgba(201, 169, 97, 0.05);
    }
    .corner-decoration { position: absolute; width: 40px; height: 40px; border-color: #C9A961; border-style: solid; }
    .top-left { top: 10px; left: 10px; border-width: 3px 0 0 3px; }
    .top-right { top: 10px; right: 10px; border-width: 3px 3px 0 0; }
    .bottom-left { bottom: 10px; left: 10px; border-width: 0 0 3px 3px; }
    .bottom-right { bottom: 10px; right: 10px; border-width: 0 3px 3px 0; }
    .header { text-align: center; margin-bottom: 20px; }
    .v-icon { width: 60px; height: 60px; }
    .main-title { font-size: 32px; font-weight: 700; color: #C9A961; letter-spacing: 8px; margin: 10px 0; text-transform: uppercase; }
    .subtitle { font-size: 12px; color: #888; letter-spacing: 4px; margin-bottom: 20px; }
    .verified-badge {
      display: inline-flex; align-items: center; gap: 8px;
      background: linear-gradient(135deg, #1a3a2a 0%, #0d2818 100%);
      border: 1px solid #2d5a3d; color: #4ade80;
      padding: 10px 25px; border-radius: 25px;
      font-weight: 600; font-size: 13px; letter-spacing: 2px;
    }
    .diamond-decoration { color: #C9A961; font-size: 10px; margin-top: 15px; }
    .certificate-id-box {
      background: rgba(201, 169, 97, 0.08); border: 1px solid rgba(201, 169, 97, 0.3);
      border-radius: 8px; padding: 15px 30px; margin: 20px auto; max-width: 450px; text-align: center;
    }
    .certificate-id-box .label { display: block; font-size: 10px; color: #888; letter-spacing: 3px; margin-bottom: 5px; }
    .certificate-id-box .value { font-size: 22px; font-weight: 700; color: #C9A961; letter-spacing: 3px; }
    .main-content { display: grid; grid-template-columns: 1fr 1fr; gap: 25px; margin: 25px 0; }
    .image-section { text-align: center; }
    .image-frame { border: 2px solid #C9A961; border-radius: 8px; padding: 10px; background: rgba(0, 0, 0, 0.3); }
    .jewelry-image { width: 100%; max-width: 280px; height: 280px; object-fit: cover; border-radius: 4px; background: #0a0a0a; }
    .image-placeholder {
      width: 100%; max-width: 280px; height: 280px; display: flex; align-items: center; justify-content: center;
      background: rgba(201, 169, 97, 0.05); border: 2px dashed rgba(201, 169, 97, 0.3);
      border-radius: 4px; color: #666; font-size: 14px; margin: 0 auto;
    }
    .image-label { margin-top: 12px; font-size: 10px; color: #666; letter-spacing: 2px; text-transform: uppercase; }
    .details-section { display: flex; flex-direction: column; gap: 15px; }
    .details-card { background: rgba(0, 0, 0, 0.3); border: 1px solid rgba(201, 169, 97, 0.3); border-radius: 8px; overflow: hidden; }
    .card-header {
      display: flex; align-items: center; gap: 8px; padding: 10px 15px;
      background: rgba(201, 169, 97, 0.1); border-bottom: 1px solid rgba(201, 169, 97, 0.2);
      color: #C9A961; font-size: 11px; font-weight: 600; letter-spacing: 2px;
    }
    .detail-row {
      display: flex; justify-content: space-between; align-items: center;
      padding: 10px 15px; border-bottom: 1px solid rgba(201, 169, 97, 0.1);
    }
    .detail-row:last-child { border-bottom: none; }
    .detail-label { font-size: 12px; color: #888; }
    .detail-value { font-size: 12px; color: #fff; text-align: right; }
    .detail-value.gold { color: #C9A961; }
    .description-block { padding: 10px 15px; font-size: 11px; color: #aaa; line-height: 1.5; }
    .footer { margin-top: 25px; }
    .footer-content { display: grid; grid-template-columns: 120px 1fr 120px; gap: 20px; align-items: center; margin-bottom: 20px; }
    .badge-circle {
      width: 100px; height: 100px; border: 3px solid #C9A961; border-radius: 50%;
      display: flex; align-items: center; justify-content: center; margin: 0 auto;
      background: linear-gradient(135deg, #1a1a1a, #0f0f0f);
    }
    .badge-text { text-align: center; line-height: 1.3; }
    .badge-brand { display: block; font-size: 11px; font-weight: 700; color: #C9A961; letter-spacing: 1px; }
    .badge-genuine { display: block; font-size: 9px; font-weight: 600; color: #888; letter-spacing: 1px; }
    .badge-year { display: block; font-size: 10px; font-weight: 700; color: #C9A961; }
    .contact-info { text-align: center; }
    .brand-name { font-size: 20px; font-weight: 700; color: #fff; letter-spacing: 3px; }
    .tagline { font-size: 10px; color: #888; letter-spacing: 1px; margin-bottom: 5px; }
    .contact-line { font-size: 9px; color: #666; }
    .qr-code-container { text-align: center; }
    .qr-code { width: 90px; height: 90px; border: 2px solid #C9A961; border-radius: 8px; background: white; padding: 5px; }
    .qr-label { font-size: 9px; color: #888; margin-top: 8px; }
    .disclaimer {
      display: flex; align-items: flex-start; gap: 10px;
      background: rgba(201, 169, 97, 0.08); border: 1px solid rgba(201, 169, 97, 0.2);
      border-radius: 8px; padding: 15px; margin-bottom: 15px;
    }
    .disclaimer p { font-size: 10px; line-height: 1.5; color: #888; margin: 0; }
    .disclaimer strong { color: #C9A961; }
    .certificate-access {
      background: linear-gradient(180deg, rgba(201, 169, 97, 0.08), rgba(201, 169, 97, 0.15));
      border: 2px solid rgba(201, 169, 97, 0.4); border-radius: 10px;
      padding: 15px; margin-bottom: 15px; text-align: center;
    }
    .access-title { font-size: 11px; font-weight: 700; color: #C9A961; letter-spacing: 2px; }
    .access-url a { font-size: 12px; color: #4ade80; text-decoration: none; font-weight: 600; word-break: break-all; }
    .access-password {
      display: flex; align-items: center; justify-content: center; gap: 8px;
      background: rgba(0, 0, 0, 0.3); border: 1px solid rgba(201, 169, 97, 0.3);
      border-radius: 6px; padding: 8px 15px; margin-top: 10px;
    }
    .password-label { font-size: 10px; color: #888; text-transform: uppercase; letter-spacing: 1px; }
    .password-value { font-size: 14px; font-weight: 700; color: #C9A961; font-family: 'Courier New', monospace; letter-spacing: 2px; }
    .blockchain-verification {
      background: linear-gradient(180deg, rgba(201, 169, 97, 0.05), rgba(201, 169, 97, 0.1));
      border: 1px solid rgba(201, 169, 97, 0.3); border-radius: 8px; padding: 15px; margin: 0 -5mm;
    }
    .verification-header {
      display: flex; align-items: center; justify-content: center; gap: 10px;
      margin-bottom: 12px; padding-bottom: 10px; border-bottom: 1px solid rgba(201, 169, 97, 0.2);
    }
    .bar-text { font-size: 11px; font-weight: 700; color: #C9A961; letter-spacing: 2px; }
    .blockchain-hashes { display: flex; flex-direction: column; gap: 8px; margin-bottom: 10px; }
    .hash-row {
      display: flex; align-items: center; justify-content: space-between;
      padding: 8px 12px; background: rgba(0, 0, 0, 0.3); border-radius: 6px;
      border: 1px solid rgba(201, 169, 97, 0.15);
    }
    .chain-name { font-size: 10px; font-weight: 700; letter-spacing: 1px; padding: 3px 8px; border-radius: 4px; }
    .chain-name.orilux { background: linear-gradient(135deg, #1a3a2a, #0d2818); color: #4ade80; border: 1px solid #2d5a3d; }
    .chain-name.evm { background: linear-gradient(135deg, #2a1a3a, #180d28); color: #a78bfa; border: 1px solid #5a2d6d; }
    .tx-hash { font-size: 7px; word-break: break-all; max-width: 200px; text-align: right; line-height: 1.3; color: #C9A961; font-family: 'Courier New', monospace; }
    .block-info { text-align: center; padding-top: 8px; border-top: 1px solid rgba(201, 169, 97, 0.15); }
    .block-number { font-size: 10px; font-weight: 600; color: #C9A961; letter-spacing: 1px; }
  </style>
</head>
<body>
  <div class="certificate-container">
    <div class="corner-decoration top-left"></div>
    <div class="corner-decoration top-right"></div>

    <header class="header">
      <div class="logo-v">
        <svg viewBox="0 0 100 100" class="v-icon">
          <polygon points="50,85 15,25 35,25 50,55 65,25 85,25" fill="#C9A961"/>
        </svg>
      </div>
      <h1 class="main-title">CERTIFICATE OF AUTHENTICITY</h1>
      <p class="subtitle">BLOCKCHAIN VERIFIED DIGITAL CERTIFICATE</p>
      <div class="verified-badge">
        <span class="check-icon">&#10003;</span>
        <span>VERIFIED</span>
      </div>
      <div class="diamond-decoration">&#9670;</div>
    </header>

    <div class="certificate-id-box">
      <span class="label">CERTIFICATE ID</span>
      <span class="value">{{.CertificateID}}</span>
    </div>

    <div class="main-content">
      <div class="image-section">
        <div class="image-frame">
          {{if .JewelryImage}}<img src="{{.JewelryImage}}" alt="{{.JewelryName}}" class="jewelry-image" />{{else}}<div class="image-placeholder">Imagen no disponible</div>{{end}}
        </div>
        <p class="image-label">OFFICIAL CERTIFIED IMAGE</p>
      </div>

      <div class="details-section">
        <div class="details-card">
          <div class="card-header"><span>JEWELRY DETAILS</span></div>
          <div class="detail-row">
            <span class="detail-label">Name</span>
            <span class="detail-value gold">{{.JewelryName}}</span>
          </div>
          <div class="detail-row">
            <span class="detail-label">Type</span>
            <span class="detail-value gold">{{.JewelryType}}</span>
          </div>
          <div class="detail-row">
            <span class="detail-label">Materials</span>
            <span class="detail-value gold">{{if .Materials}}{{.Materials}}{{else}}Not specified{{end}}</span>
          </div>
          <div class="detail-row">
            <span class="detail-label">Weight</span>
            <span class="detail-value gold">{{if .Weight}}{{.Weight}}{{else}}Not specified{{end}}</span>
          </div>
          {{if .Value}}
          <div class="detail-row">
            <span class="detail-label">Value</span>
            <span class="detail-value gold">{{.Value}}</span>
          </div>
          {{end}}
          <div class="description-block">{{.Description}}</div>
        </div>

        <div class="details-card">
          <div class="card-header"><span>CERTIFICATE INFO</span></div>
          <div class="detail-row">
            <span class="detail-label">Date</span>
            <span class="detail-value">{{.Date}}</span>
          </div>
          <div class="detail-row">
            <span class="detail-label">Origin</span>
            <span class="detail-value">{{if .Origin}}{{.Origin}}{{else}}Not specified{{end}}</span>
          </div>
          <div class="detail-row">
            <span class="detail-label">Artisan</span>
            <span class="detail-value">{{if .Artisan}}{{.Artisan}}{{else}}Not specified{{end}}</span>
          </div>
          <div class="detail-row">
            <span class="detail-label">Network</span>
            <span class="detail-value gold">{{.Network}}</span>
          </div>
        </div>
      </div>
    </div>

    <footer class="footer">
      <div class="footer-content">
        <div class="authenticity-badge-container">
          <div class="badge-circle">
            <div class="badge-text">
              <span class="badge-brand">VERALIX</span>
              <span class="badge-genuine">GENUINE</span>
              <span class="badge-year">{{.Year}}</span>
            </div>
          </div>
        </div>
        <div class="contact-info">
          <span class="brand-name">VERALIX</span>
          <p class="tagline">Premium Jewelry Certification</p>
          <p class="contact-line">www.veralix.io &bull; contact@veralix.io</p>
        </div>
        <div class="qr-code-container">
          <img src="{{.QRCode}}" alt="QR Code" class="qr-code" />
          <p class="qr-label">Scan to Verify</p>
        </div>
      </div>

      <div class="disclaimer">
        <p>This certificate is <strong>IMMUTABLE</strong> and backed by decentralized blockchain technology. Authenticity can be verified anytime at <strong>veralix.io/verify</strong></p>
      </div>
    </footer>

    <div class="certificate-access">
      <div class="access-header">
        <span class="access-title">VERIFICAR CERTIFICADO ONLINE</span>
      </div>
      <div class="access-url">
        <a href="{{.VerificationURL}}" target="_blank">{{.VerificationURL}}</a>
      </div>
      {{if .Password}}
      <div class="access-password">
        <span class="password-label">Contrase&ntilde;a:</span>
        <span class="password-value">{{.Password}}</span>
      </div>
      {{end}}
    </div>

    <div class="blockchain-verification">
      <div class="verification-header">
        <span class="bar-text">DUAL BLOCKCHAIN VERIFICATION</span>
      </div>
      <div class="blockchain-hashes">
        <div class="hash-row">
          <span class="chain-name orilux">ORILUXCHAIN</span>
          <span class="tx-hash">{{if .OriluxTxHash}}{{.OriluxTxHash}}{{else}}Pending...{{end}}</span>
        </div>
        <div class="hash-row">
          <span class="chain-name evm">BSC MAINNET</span>
          <span class="tx-hash">{{if .EVMTxHash}}{{.EVMTxHash}}{{else}}Pending...{{end}}</span>
        </div>
      </div>
      <div class="block-info">
        <span class="block-number">BLOCK #{{.BlockNumber}}</span>
      </div>
    </div>

    <div class="corner-decoration bottom-left"></div>
    <div class="corner-decoration bottom-right"></div>
  </div>
</body>
</html>
`
